package app

import (
	"github.com/armatek/armature/internal/liveconfig"
	"github.com/armatek/armature/internal/plugin"

	"github.com/armatek/armature/modules/banner"
	"github.com/armatek/armature/modules/notes"
	"github.com/armatek/armature/modules/status"
)

// builtinTable assembles the factory table for the modules compiled into the
// armature binary. Manifest files on disk decide which of these actually
// load, and under what ids.
func builtinTable(config *liveconfig.Config) *plugin.Table {
	table := plugin.NewTable()
	status.Register(table)
	notes.Register(table)
	banner.Register(table, config)
	return table
}
