package ga

import "sync"

// GenerationEvolvedEvent is fired after every completed evolution step.
const GenerationEvolvedEvent = "generation_evolved"

// GeneticEvent describes a step of the run
type GeneticEvent struct {
	Type       string
	Generation int
	Population *Population
	Fittest    *Chromosome
}

// EventListener receives genetic events synchronously
type EventListener interface {
	GeneticEventFired(ev GeneticEvent)
}

// EventListenerFunc adapts a plain function to EventListener
type EventListenerFunc func(ev GeneticEvent)

func (f EventListenerFunc) GeneticEventFired(ev GeneticEvent) { f(ev) }

// EventManager dispatches events to listeners in registration order
type EventManager struct {
	mu        sync.RWMutex
	listeners []EventListener
}

func NewEventManager() *EventManager {
	return &EventManager{}
}

func (m *EventManager) AddListener(l EventListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Fire calls every listener with ev
func (m *EventManager) Fire(ev GeneticEvent) {
	m.mu.RLock()
	listeners := append([]EventListener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range listeners {
		l.GeneticEventFired(ev)
	}
}
