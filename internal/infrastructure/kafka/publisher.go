package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Fiscal-api/internal/application/fiscal"
)

var _ fiscal.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de transacción en Kafka.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher construye el publisher para los brokers y tópico dados.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish serializa el evento a JSON y lo escribe. El parámetro topic se
// ignora si el writer ya tiene tópico fijo; se conserva por el contrato del
// puerto.
func (p *Publisher) Publish(topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{Value: data})
}

// Close cierra el writer subyacente.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
