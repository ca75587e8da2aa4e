// Package files locates picks tables on disk.
//
// A picks source may name a single file or a directory. For a directory the
// most recently modified .csv or .xlsx file is used, so a drop folder that
// receives a new export every day can be served without changing config.
//
//	d := files.NewDiscovery("")
//	path, err := d.LatestPicksFile("/srv/picks")
package files
