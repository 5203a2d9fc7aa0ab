package jobs

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ppasini/fraudrank/pkg/graph"
	"github.com/ppasini/fraudrank/pkg/utils"
)

// ComputeJob is the work-queue payload. It carries the full edge list
// along with the seeds and parameters, so workers stay stateless and
// never share mutable graph state with the server.
type ComputeJob struct {
	ID            string             `json:"id"`
	GraphID       string             `json:"graph_id"`
	Directed      bool               `json:"directed"`
	Edges         []graph.Edge       `json:"edges"`
	Seeds         map[string]float64 `json:"seeds"`
	Damping       float64            `json:"damping_factor"`
	Tolerance     float64            `json:"tolerance"`
	MaxIterations int                `json:"max_iterations"`
	Strategy      string             `json:"dangling_strategy"`
}

// ComputeResult is the result-queue payload. A validation failure
// travels back in Error with no partial scores.
type ComputeResult struct {
	JobID      string             `json:"job_id"`
	GraphID    string             `json:"graph_id"`
	Error      string             `json:"error,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Converged  bool               `json:"converged"`
	Iterations int                `json:"iterations_performed"`
	ElapsedMs  float64            `json:"compute_time_ms"`
}

// ResultStore collects finished jobs on the server side.
type ResultStore = utils.SafeMap[string, *ComputeResult]

// Publisher writes compute jobs to the work queue.
type Publisher struct {
	Channel *amqp.Channel
	Queue   string
}

func (p *Publisher) Publish(job *ComputeJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Channel.PublishWithContext(ctx,
		"",
		p.Queue, // routing key
		false,   // mandatory
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         data,
		})
}

// Collect consumes the result queue into the store. It blocks until
// the channel is closed.
func Collect(ch *amqp.Channel, queue string, store *ResultStore) error {
	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}
	for d := range msgs {
		var result ComputeResult
		if err := json.Unmarshal(d.Body, &result); err != nil {
			utils.FailOnNack(d, err)
			continue
		}
		store.Put(result.JobID, &result)
		utils.ServerLog("Collected result for job %s (%d iterations)", result.JobID, result.Iterations)
		if err := d.Ack(false); err != nil {
			utils.FailOnNack(d, err)
		}
	}
	return nil
}
