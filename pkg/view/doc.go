// Package view holds the state of the submission form and the rules that move
// it: validating pasted JSON and the selected file, posting them through a
// Submitter, and projecting the stored response through the selected filters.
//
// Form is shared by every front end (HTML page, terminal UI, CLI). It keeps the
// in-flight flag set for exactly the duration of a submission, whichever way
// the submission ends, and refuses overlapping submissions with ErrInFlight.
package view
