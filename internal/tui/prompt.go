package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmMsg struct {
	message string
	reply   chan<- bool
}

type alertMsg struct {
	message string
}

// Prompter implements board.Prompter on top of a running program.  Confirm
// blocks its caller until the user answers, so the controller must be called
// from a tea.Cmd, never from Update.
type Prompter struct {
	mu   sync.Mutex
	send func(tea.Msg)
	done <-chan struct{}
}

// Bind attaches the prompter to a program.  done is closed when the program
// exits; pending confirmations then answer no.
func (p *Prompter) Bind(send func(tea.Msg), done <-chan struct{}) {
	p.mu.Lock()
	p.send, p.done = send, done
	p.mu.Unlock()
}

func (p *Prompter) bound() (func(tea.Msg), <-chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.send, p.done
}

func (p *Prompter) Confirm(message string) bool {
	send, done := p.bound()
	if send == nil {
		return false
	}
	reply := make(chan bool, 1)
	send(confirmMsg{message: message, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-done:
		return false
	}
}

func (p *Prompter) Alert(message string) {
	if send, _ := p.bound(); send != nil {
		send(alertMsg{message: message})
	}
}
