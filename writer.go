package ytcomments

import (
	"encoding/json"
	"errors"
	"io"
)

const writerIndent = "    "

// CommentWriter streams records into a `{"comments": [...]}` envelope one
// record at a time, so memory stays bounded no matter how long the feed runs.
// Writes are not transactional: whatever was flushed before a failure stays
// in the output.
type CommentWriter struct {
	w      io.Writer
	pretty bool
	count  int
	opened bool
	closed bool
	err    error
}

// NewCommentWriter wraps w. With pretty set, every record is indented with
// four spaces per level; otherwise records are written compactly.
func NewCommentWriter(w io.Writer, pretty bool) *CommentWriter {
	return &CommentWriter{w: w, pretty: pretty}
}

// Write appends one comment record to the envelope.
func (cw *CommentWriter) Write(comment Comment) error {
	if cw.err != nil {
		return cw.err
	}
	if cw.closed {
		return errors.New("comment writer already closed")
	}

	if err := cw.open(); err != nil {
		return err
	}

	if cw.count > 0 {
		if err := cw.writeString(",\n"); err != nil {
			return err
		}
	}

	var (
		data []byte
		err  error
	)

	if cw.pretty {
		data, err = json.MarshalIndent(comment, writerIndent+writerIndent, writerIndent)
		data = append([]byte(writerIndent+writerIndent), data...)
	} else {
		data, err = json.Marshal(comment)
	}
	if err != nil {
		cw.err = err
		return err
	}

	if _, err := cw.w.Write(data); err != nil {
		cw.err = err
		return err
	}

	cw.count++

	return nil
}

// Close terminates the envelope. An empty feed still produces a well-formed
// document.
func (cw *CommentWriter) Close() error {
	if cw.closed {
		return cw.err
	}
	cw.closed = true

	if cw.err != nil {
		return cw.err
	}

	if err := cw.open(); err != nil {
		return err
	}

	tail := "\n]\n}"
	if cw.pretty {
		tail = "\n" + writerIndent + "]\n}"
	}

	return cw.writeString(tail)
}

// Count reports how many records have been written so far.
func (cw *CommentWriter) Count() int {
	return cw.count
}

func (cw *CommentWriter) open() error {
	if cw.opened {
		return nil
	}
	cw.opened = true

	head := "{\n\"comments\":[\n"
	if cw.pretty {
		head = "{\n" + writerIndent + "\"comments\": [\n"
	}

	return cw.writeString(head)
}

func (cw *CommentWriter) writeString(s string) error {
	if _, err := io.WriteString(cw.w, s); err != nil {
		cw.err = err
		return err
	}

	return nil
}
