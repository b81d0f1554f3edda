// Package catalog finds survey documents in a directory and hands out
// per-session copies of them. Parsed surveys are cached by path and
// modification time so repeated sessions over the same file skip parsing.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/harrison/persona/internal/fileutil"
	"github.com/harrison/persona/internal/logger"
	"github.com/harrison/persona/internal/models"
	"github.com/harrison/persona/internal/parser"
)

// DefaultExtensions are the survey file extensions scanned when none are configured
var DefaultExtensions = []string{".txt", ".survey"}

// DefaultCacheSize is the number of parsed surveys kept when none is configured
const DefaultCacheSize = 32

// Entry describes one survey file found by List
type Entry struct {
	Path      string
	Title     string
	Questions int
	// Err is set when the file could not be parsed; Title is then empty
	Err error
}

// Options configures a Catalog
type Options struct {
	Extensions []string
	Recursive  bool
	CacheSize  int
	Logger     logger.Logger
}

// Catalog enumerates and loads surveys under one root directory
type Catalog struct {
	root       string
	extensions []string
	recursive  bool
	log        logger.Logger
	parser     *parser.SurveyParser
	cache      *lru.Cache[string, *models.Survey]
}

// New creates a Catalog rooted at dir
func New(dir string, opts Options) (*Catalog, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *models.Survey](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create survey cache: %w", err)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Catalog{
		root:       dir,
		extensions: exts,
		recursive:  opts.Recursive,
		log:        log,
		parser:     parser.New(log),
		cache:      cache,
	}, nil
}

// Root returns the directory the catalog scans
func (c *Catalog) Root() string {
	return c.root
}

// Sources returns the absolute paths of every survey file under the root
func (c *Catalog) Sources() ([]string, error) {
	result, err := c.scan()
	if err != nil {
		return nil, err
	}
	return result.Paths(), nil
}

// List returns an entry for every survey file under the root. Files that fail
// to parse are listed with Err set rather than failing the whole listing.
func (c *Catalog) List() ([]Entry, error) {
	result, err := c.scan()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(result.Files))
	for _, f := range result.Files {
		s, err := c.template(f)
		if err != nil {
			c.log.LogWarn(fmt.Sprintf("skipping %s: %v", f.Path, err))
			entries = append(entries, Entry{Path: f.Path, Err: err})
			continue
		}
		entries = append(entries, Entry{Path: f.Path, Title: s.Title, Questions: len(s.Questions)})
	}
	return entries, nil
}

// ReadSource returns the raw text of the named survey. Relative names are
// resolved against the catalog root first, then the working directory.
func (c *Catalog) ReadSource(name string) (string, error) {
	path, err := c.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read survey: %w", err)
	}
	return string(data), nil
}

// Load returns a fresh copy of the named survey with every category at zero.
// The copy is owned by the caller and can be scored without affecting later loads.
func (c *Catalog) Load(name string) (*models.Survey, error) {
	path, err := c.resolve(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey: %w", err)
	}

	tmpl, err := c.template(fileutil.File{Path: path, ModTime: info.ModTime(), Size: info.Size()})
	if err != nil {
		return nil, err
	}
	s := tmpl.Clone()
	s.ResetPoints()
	return s, nil
}

// Cached returns the number of parsed surveys currently held
func (c *Catalog) Cached() int {
	return c.cache.Len()
}

func (c *Catalog) scan() (*fileutil.ScanResult, error) {
	result, err := fileutil.ScanDirectory(c.root, fileutil.ScanOptions{
		Extensions: c.extensions,
		Recursive:  c.recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.root, err)
	}
	for _, e := range result.Errors {
		c.log.LogWarn(e.Error())
	}
	return result, nil
}

func (c *Catalog) template(f fileutil.File) (*models.Survey, error) {
	key := f.Path + "@" + strconv.FormatInt(f.ModTime.UnixNano(), 10) + ":" + strconv.FormatInt(f.Size, 10)
	if s, ok := c.cache.Get(key); ok {
		c.log.LogTrace("cache hit " + f.Path)
		return s, nil
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey: %w", err)
	}
	defer file.Close()

	s, err := c.parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
	}
	c.cache.Add(key, s)
	return s, nil
}

func (c *Catalog) resolve(name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = []string{filepath.Join(c.root, name), name}
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to open survey: %w", err)
		}
	}
	return "", fmt.Errorf("failed to open survey: %s: %w", name, os.ErrNotExist)
}
