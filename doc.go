/*
Package verdict turns free-form, line-oriented text into a verdict list: every selected
line becomes an item the user marks as success or failure, and items regroup by state
with animated transitions.

# Concept

A document is an ordered sequence of text nodes and group nodes. Converting a selection
extends it to whole lines, turns each non-blank line into a neutral item and splits the
surrounding text around the new group. Classifying an item moves it inside its group so
that the group always reads

	[successes, in marking order] [neutrals] [failures, newest first]

Once every item of every group has a verdict, the document reports a ratio of succeeded
and failed items.

The Editor never draws anything. The host supplies a ports.Renderer that lays out the
document and reports item positions, and a motion.Sink that plays transitions. Around
each classification the Editor snapshots positions, applies the change, lets the renderer
commit and measures again; every item that moved gets a transition from its old offset
back to zero.

# Usage

	editor := verdict.New(
		verdict.WithRenderer(layout),
		verdict.WithAnimationSink(animator),
	)

	text := "Groceries\nApple\nBanana"
	if _, err := editor.InitialConvert(ctx, text, 10, len(text)); err != nil {
		log.Fatal(err)
	}

	doc := editor.Document()
	group := doc.Nodes[1]
	transitions, err := editor.Classify(ctx, group.ID, group.Items[1].ID, domain.StateSuccess)

Multi-client hosts keep sessions in a ports.StateStore and drive the stateless engine
through session.Manager; see pkg/adapters/http and pkg/adapters/mcp.
*/
package verdict
