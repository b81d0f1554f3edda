// Package display formats the short status messages the CLI prints around
// survey files: loading progress and warnings.
//
// Progress for several files:
//
//	progress := display.NewProgressIndicator(os.Stdout, len(files))
//	progress.Start()
//	for _, file := range files {
//	    progress.Step(file)
//	}
//	progress.Complete()
//
// Warnings carry an optional message, file list and suggestion:
//
//	display.WarnInvalidSurveys(failed).Display(os.Stderr)
//
// All output goes through an io.Writer so commands can be tested against a
// buffer.
package display
