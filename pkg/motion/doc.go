// Package motion computes position deltas around a document mutation so renderers
// can animate items from where they were to where they are now.
//
// The protocol has two phases:
//
//  1. BeginMutation snapshots the vertical offset of every tracked element.
//  2. After the renderer has committed the new document, EndMutation measures the
//     offsets again and plays a Transition from (before - after) to zero for every
//     element that moved further than the threshold.
//
// The package never touches the document itself; elements are keyed by domain.ID.
package motion
