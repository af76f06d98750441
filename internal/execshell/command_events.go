package execshell

import (
	"fmt"
	"io"
)

const (
	observerLineTemplateConstant         = "%s\n"
	prefixedObserverLineTemplateConstant = "%s%s\n"
)

// OutputLineObserver receives each line of merged child-process output as it arrives.
type OutputLineObserver interface {
	// HandleOutputLine consumes one output line without its trailing newline.
	HandleOutputLine(outputLine string)
}

// WriterLineObserver forwards output lines to an io.Writer, one line per write.
type WriterLineObserver struct {
	writer io.Writer
}

// NewWriterLineObserver constructs an observer around the provided writer.
func NewWriterLineObserver(writer io.Writer) *WriterLineObserver {
	return &WriterLineObserver{writer: writer}
}

// HandleOutputLine implements OutputLineObserver by writing the line and a newline.
func (observer *WriterLineObserver) HandleOutputLine(outputLine string) {
	if observer == nil || observer.writer == nil {
		return
	}
	fmt.Fprintf(observer.writer, observerLineTemplateConstant, outputLine)
}

// PrefixedWriterLineObserver echoes output lines to a writer with a fixed prefix.
//
// The migration loop uses it to tag console output with the active work item.
type PrefixedWriterLineObserver struct {
	writer io.Writer
	prefix string
}

// NewPrefixedWriterLineObserver constructs a prefixing observer around the provided writer.
func NewPrefixedWriterLineObserver(writer io.Writer, prefix string) *PrefixedWriterLineObserver {
	return &PrefixedWriterLineObserver{writer: writer, prefix: prefix}
}

// HandleOutputLine implements OutputLineObserver by writing the prefixed line.
func (observer *PrefixedWriterLineObserver) HandleOutputLine(outputLine string) {
	if observer == nil || observer.writer == nil {
		return
	}
	fmt.Fprintf(observer.writer, prefixedObserverLineTemplateConstant, observer.prefix, outputLine)
}
