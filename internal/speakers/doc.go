// Package speakers derives identification snippets for each diarized speaker
// and resolves which detected face belongs to which speaker.
//
// Machine is an immutable value: every transition returns the next Machine
// together with the assignment it has produced so far, leaving the receiver
// untouched. Callers own single-writer discipline and restart a flow by
// calling Begin again.
package speakers
