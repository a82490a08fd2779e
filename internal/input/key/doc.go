// Package key provides the key event types observed by the correction
// pipeline.
//
// This package defines:
//
//   - Key: Identifies a keyboard key (special keys or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers and timestamp
//
// The pipeline only cares whether the last key was Enter, the line
// terminator; the rest of the model exists for the terminal host.
package key
