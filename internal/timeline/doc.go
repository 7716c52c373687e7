// Package timeline turns an aligned clip into cut instructions for the video
// engine.
//
// BuildKeepRanges converts aligned words into merged source-time intervals,
// SplitBySpeaker subdivides them at speaker turns, and Compress lays the
// intervals end to end on a single output timeline. Retime re-expresses
// source-timed words on that compressed timeline so captions line up with the
// rendered cut.
package timeline
