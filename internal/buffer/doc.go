// Package buffer provides the line-addressed text buffer that hosts the
// correction pipeline.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Line and column addressing with byte columns
//   - Half-open range replacement
//   - A single cursor that follows edits
//   - Synchronous change notifications delivered after every mutation
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello\nWorld")
//
//	buf.OnChange(func(c buffer.Change) {
//	    fmt.Println("changed", c.Range, "->", c.NewEnd)
//	})
//
//	// Replace "World" with "Go"
//	buf.Replace("Go", buffer.Point{Line: 1, Column: 0}, buffer.Point{Line: 1, Column: 5})
//
// Listeners run on the goroutine that performed the mutation, after the
// buffer lock has been released. A listener may therefore mutate the buffer
// again; the nested change is delivered before the outer call returns.
package buffer
