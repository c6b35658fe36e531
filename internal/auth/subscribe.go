// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "github.com/jeranaias/campus-tui/internal/model"

// Subscribe returns a channel that receives the state after every change,
// starting with the current one. Slow readers only see the latest state.
// Call the returned function to unsubscribe; the channel is then closed.
func (p *Provider) Subscribe() (<-chan model.AuthState, func()) {
	ch := make(chan model.AuthState, 1)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	ch <- snapshot(p.state)
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// publish replaces any unread state with s. Caller holds p.mu.
func publish(ch chan model.AuthState, s model.AuthState) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
