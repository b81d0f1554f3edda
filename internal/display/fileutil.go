package display

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/persona/internal/fileutil"
)

// IsSurveyFile reports whether filename looks like a survey document:
// not hidden and carrying one of extensions
func IsSurveyFile(filename string, extensions []string) bool {
	base := filepath.Base(filename)
	if base == "" || strings.HasPrefix(base, ".") {
		return false
	}
	if strings.ContainsAny(base, "\n\x00") {
		return false
	}
	return filepath.Ext(base) != "" && fileutil.HasExtension(base, extensions)
}

// ExpandSurveyArgs turns command arguments into survey file paths.
// Directories are expanded to the survey files directly inside them;
// anything else is passed through unchanged.
func ExpandSurveyArgs(args []string, extensions []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := FindSurveyFiles(arg, extensions)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// FindSurveyFiles scans the immediate directory for survey files and
// returns their absolute paths in order
func FindSurveyFiles(dirPath string, extensions []string) ([]string, error) {
	result, err := fileutil.ScanDirectory(dirPath, fileutil.ScanOptions{
		Extensions: extensions,
		Recursive:  false,
	})
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		if IsSurveyFile(f.Path, extensions) {
			files = append(files, f.Path)
		}
	}
	return files, nil
}
