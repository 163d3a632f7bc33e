package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventConvert  EventType = "convert"
	EventEditText EventType = "edit_text"
	EventClassify EventType = "classify"
	EventAnimate  EventType = "animate"
	EventReject   EventType = "reject"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// ConvertEvent reports a selection turned into a group.
type ConvertEvent struct {
	EventBase
	Initial      bool `json:"initial"`
	SourceNodeID ID   `json:"source_node_id,omitempty"` // Empty for the initial buffer
	GroupID      ID   `json:"group_id"`
	Lines        int  `json:"lines"`
}

// EditEvent reports a text node edit.
type EditEvent struct {
	EventBase
	NodeID ID `json:"node_id"`
}

// ClassifyEvent reports an item transition.
type ClassifyEvent struct {
	EventBase
	GroupID ID        `json:"group_id"`
	ItemID  ID        `json:"item_id"`
	From    ItemState `json:"from"`
	To      ItemState `json:"to"`
	Ratio   *Ratio    `json:"ratio,omitempty"`
}

// AnimateEvent reports a transition handed to the animation sink.
type AnimateEvent struct {
	EventBase
	ElementID ID      `json:"element_id"`
	Delta     float64 `json:"delta"`
}

// RejectEvent reports an operation absorbed as a no-op.
type RejectEvent struct {
	EventBase
	Op  string `json:"op"`
	Err error  `json:"-"`
}

// LifecycleHooks defines callbacks for editor observability.
type LifecycleHooks struct {
	OnConvert  func(context.Context, *ConvertEvent)
	OnEditText func(context.Context, *EditEvent)
	OnClassify func(context.Context, *ClassifyEvent)
	OnAnimate  func(context.Context, *AnimateEvent)
	OnReject   func(context.Context, *RejectEvent)
}
