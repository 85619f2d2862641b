package worddoc

import (
	"errors"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"
)

const wordDocumentStream = "WordDocument"

// readStreams loads the named top-level streams of a compound file.
// Streams that are not present are absent from the result.
func readStreams(r io.ReaderAt, names ...string) (map[string][]byte, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open compound file: %v", ErrNotWordDocument, err)
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := make(map[string][]byte, len(names))
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read compound directory: %w", err)
		}
		if len(entry.Path) != 0 || !want[entry.Name] {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return nil, fmt.Errorf("read stream %s: %w", entry.Name, err)
		}
		out[entry.Name] = data
	}
	return out, nil
}

// Open decodes a .doc file held in an OLE2 compound file.
func Open(r io.ReaderAt, opts Options) (*Document, error) {
	streams, err := readStreams(r, wordDocumentStream, "0Table", "1Table")
	if err != nil {
		return nil, err
	}
	main, ok := streams[wordDocumentStream]
	if !ok {
		return nil, fmt.Errorf("%w: no %s stream", ErrNotWordDocument, wordDocumentStream)
	}
	fib, err := ParseFIB(main)
	if err != nil {
		return nil, err
	}
	table, ok := streams[fib.TableStream()]
	if !ok {
		return nil, &FormatError{Part: "container", Err: fmt.Errorf("missing %s stream", fib.TableStream())}
	}
	return Load(main, table, opts)
}
