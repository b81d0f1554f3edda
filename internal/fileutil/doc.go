// Package fileutil discovers survey files on disk.
//
// ScanDirectory walks a directory with extension, name-pattern, depth and
// exclusion filters, and returns every matched file with the modification
// time and size the catalog uses to key its cache. Hidden directories are
// always skipped. Non-fatal problems such as an unreadable subdirectory are
// collected in ScanResult.Errors while the walk continues; only a missing root
// or an invalid pattern fails the scan.
//
// Basic usage:
//
//	result, err := fileutil.ScanDirectory("surveys", fileutil.ScanOptions{
//	    Extensions: []string{".txt", ".survey"},
//	    Recursive:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, f := range result.Files {
//	    fmt.Println(f.Path, f.ModTime)
//	}
package fileutil
