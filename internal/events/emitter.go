// Package events описывает наблюдаемый выход операций, меняющих состояние:
// каждое действие публикует набор атрибутов для внешних подписчиков.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/reputation-ledger/internal/logger"
)

const (
	ActionSubmitReview = "submit_review"
	ActionFlagDispute  = "flag_dispute"
	ActionSetVolume    = "set_transaction_volume"
)

type Event struct {
	ID         uuid.UUID         `json:"id"`
	Action     string            `json:"action"`
	At         time.Time         `json:"at"`
	Attributes map[string]string `json:"attributes"`
}

func New(action string, at time.Time, attributes map[string]string) Event {
	return Event{
		ID:         uuid.New(),
		Action:     action,
		At:         at,
		Attributes: attributes,
	}
}

// Emitter публикует событие. Публикация не должна влиять на исход операции:
// ошибки доставки подписчикам не всплывают в ядро.
type Emitter interface {
	Emit(event Event)
}

// LogEmitter пишет события в структурированный лог.
type LogEmitter struct{}

func (LogEmitter) Emit(event Event) {
	fields := logrus.Fields{
		"event_id": event.ID.String(),
		"action":   event.Action,
	}
	for k, v := range event.Attributes {
		fields[k] = v
	}
	logger.WithComponent("events").WithFields(fields).Info("operation event")
}

// Multi рассылает событие нескольким эмиттерам.
type Multi []Emitter

func (m Multi) Emit(event Event) {
	for _, e := range m {
		e.Emit(event)
	}
}

// Nop — заглушка для тестов.
type Nop struct{}

func (Nop) Emit(Event) {}
