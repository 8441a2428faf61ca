// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package delegate implements a minimal typed observer list, the chart's
// analogue of a C# event: callers subscribe a handler, optionally tagging it
// with a linked object so a whole group can be unsubscribed at once, and
// Fire dispatches to a snapshot of subscribers taken before any handler runs.
package delegate

// Handler is a single subscriber's callback.
type Handler[T any] func(args T)

type subscription[T any] struct {
	handler  Handler[T]
	once     bool
	linkedTo any // nil if not linked to an object
}

// Delegate is a typed, ordered list of subscribers to some event carrying a
// payload of type T. The zero value is ready to use.
type Delegate[T any] struct {
	subs []*subscription[T]
}

// Subscribe adds handler, to be called on every future Fire. The returned
// subscription can be passed to Unsubscribe.
func (d *Delegate[T]) Subscribe(handler Handler[T]) *subscription[T] {
	s := &subscription[T]{handler: handler}
	d.subs = append(d.subs, s)
	return s
}

// SubscribeOnce adds handler, to be called on only the next Fire, then
// automatically removed.
func (d *Delegate[T]) SubscribeOnce(handler Handler[T]) *subscription[T] {
	s := &subscription[T]{handler: handler, once: true}
	d.subs = append(d.subs, s)
	return s
}

// SubscribeLinked adds handler like Subscribe, tagging it with linkedObject
// so UnsubscribeAll(linkedObject) can remove it along with any other handler
// sharing the same tag.
func (d *Delegate[T]) SubscribeLinked(linkedObject any, handler Handler[T]) *subscription[T] {
	s := &subscription[T]{handler: handler, linkedTo: linkedObject}
	d.subs = append(d.subs, s)
	return s
}

// Unsubscribe removes a single subscription. It is a no-op if s was already
// removed or belongs to a different Delegate.
func (d *Delegate[T]) Unsubscribe(s *subscription[T]) {
	for i, e := range d.subs {
		if e == s {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// UnsubscribeAll removes every subscription linked to linkedObject (added via
// SubscribeLinked).
func (d *Delegate[T]) UnsubscribeAll(linkedObject any) {
	kept := d.subs[:0]
	for _, e := range d.subs {
		if e.linkedTo != linkedObject {
			kept = append(kept, e)
		}
	}
	d.subs = kept
}

// Fire dispatches args to every current subscriber, in subscription order.
// Single-shot subscriptions are removed before dispatch begins, and the
// dispatch list is a snapshot: a handler that subscribes or unsubscribes
// during Fire affects only the next Fire, never the one in progress.
func (d *Delegate[T]) Fire(args T) {
	var remaining []*subscription[T]
	snapshot := make([]*subscription[T], 0, len(d.subs))
	for _, s := range d.subs {
		snapshot = append(snapshot, s)
		if !s.once {
			remaining = append(remaining, s)
		}
	}
	d.subs = remaining
	for _, s := range snapshot {
		s.handler(args)
	}
}

// Len reports the number of current subscribers.
func (d *Delegate[T]) Len() int { return len(d.subs) }
