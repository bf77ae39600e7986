package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// corpusFile represents corpus data and its state on the filesystem.
type corpusFile[T any] struct {
	// fileName describes the filename the file should be written with, in the corpusDirectory.path.
	fileName string

	// data describes an object whose data should be written to the file.
	data T

	// writtenToDisk indicates whether the item has been flushed to disk yet.
	writtenToDisk bool
}

// corpusDirectory JSON serializes items of a given type to a directory. If the path is an empty string, files are
// kept in memory only.
type corpusDirectory[T any] struct {
	path string

	files     []*corpusFile[T]
	filesLock sync.Mutex
}

func newCorpusDirectory[T any](path string) *corpusDirectory[T] {
	return &corpusDirectory[T]{
		path:  path,
		files: make([]*corpusFile[T], 0),
	}
}

// addFile adds an item under fileName, replacing any item with the same (case insensitive) name. It is written on
// the next writeFiles.
func (cd *corpusDirectory[T]) addFile(fileName string, data T) {
	cd.filesLock.Lock()
	defer cd.filesLock.Unlock()

	lowerFileName := strings.ToLower(fileName)
	for _, f := range cd.files {
		if lowerFileName == strings.ToLower(f.fileName) {
			f.data = data
			f.writtenToDisk = false
			return
		}
	}
	cd.files = append(cd.files, &corpusFile[T]{fileName: fileName, data: data})
}

// readFiles replaces the in-memory items with the files of the directory matching filePattern.
func (cd *corpusDirectory[T]) readFiles(filePattern string) error {
	if cd.path == "" {
		return nil
	}

	filePaths, err := filepath.Glob(filepath.Join(cd.path, filePattern))
	if err != nil {
		return errors.WithStack(err)
	}
	sort.Strings(filePaths)

	files := make([]*corpusFile[T], 0, len(filePaths))
	for _, filePath := range filePaths {
		b, err := os.ReadFile(filePath)
		if err != nil {
			return errors.WithStack(err)
		}
		var fileData T
		if err := json.Unmarshal(b, &fileData); err != nil {
			return errors.Wrapf(err, "malformed corpus file %s", filePath)
		}
		files = append(files, &corpusFile[T]{
			fileName:      filepath.Base(filePath),
			data:          fileData,
			writtenToDisk: true,
		})
	}

	cd.filesLock.Lock()
	cd.files = files
	cd.filesLock.Unlock()
	return nil
}

// writeFiles flushes every item not yet written.
func (cd *corpusDirectory[T]) writeFiles() error {
	if cd.path == "" {
		return nil
	}

	cd.filesLock.Lock()
	defer cd.filesLock.Unlock()

	if err := os.MkdirAll(cd.path, 0755); err != nil {
		return errors.WithStack(err)
	}
	for _, file := range cd.files {
		if file.writtenToDisk {
			continue
		}
		if len(file.fileName) == 0 {
			return errors.Errorf("failed to flush corpus item to disk as it does not have a filename")
		}

		jsonEncodedData, err := json.MarshalIndent(file.data, "", " ")
		if err != nil {
			return errors.WithStack(err)
		}
		filePath := filepath.Join(cd.path, file.fileName)
		if err := os.WriteFile(filePath, jsonEncodedData, 0644); err != nil {
			return errors.Wrapf(err, "error writing corpus file %s", filePath)
		}
		file.writtenToDisk = true
	}
	return nil
}

func (cd *corpusDirectory[T]) items() []T {
	cd.filesLock.Lock()
	defer cd.filesLock.Unlock()

	res := make([]T, 0, len(cd.files))
	for _, f := range cd.files {
		res = append(res, f.data)
	}
	return res
}
