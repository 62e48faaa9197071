package recognition

import "errors"

// ErrImageUnreadable indicates a malformed or unreadable input image. It is
// scoped to the single call that received the image.
var ErrImageUnreadable = errors.New("image is unreadable or corrupt")

// ErrNoFaceDetected indicates a valid image in which the locator found zero
// face regions. Callers that accept empty results should not treat it as a
// failure; it exists so they can distinguish "nothing found" from "found but
// unmatched".
var ErrNoFaceDetected = errors.New("no face detected in image")

// ErrUntrainable indicates that enrollment produced no usable training
// faces. Recognition is blocked until enrollment or training state changes.
var ErrUntrainable = errors.New("no usable training faces in enrollment set")

// ErrLedgerConflict indicates a transient write race on the attendance
// ledger. The caller may retry; no internal retries are performed.
var ErrLedgerConflict = errors.New("attendance ledger write conflict")
