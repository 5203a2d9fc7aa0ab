package jobs

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ppasini/fraudrank/pkg/graph"
	"github.com/ppasini/fraudrank/pkg/rank"
	"github.com/ppasini/fraudrank/pkg/utils"
)

// Worker consumes compute jobs from the work queue and publishes the
// outcome to the result queue. Each job builds its own graph and rank
// vector, so any number of workers can run side by side.
type Worker struct {
	Channel     *amqp.Channel
	WorkQueue   string
	ResultQueue string
}

// Run blocks consuming jobs until the channel is closed.
func (w *Worker) Run() error {
	msgs, err := w.Channel.Consume(
		w.WorkQueue, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return err
	}
	for d := range msgs {
		var job ComputeJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			utils.FailOnNack(d, err)
			continue
		}
		utils.WorkerLog("Computing job %s (graph %s, %d edges)", job.ID, job.GraphID, len(job.Edges))
		result := Run(&job)
		data, err := json.Marshal(result)
		if err != nil {
			utils.FailOnNack(d, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = w.Channel.PublishWithContext(ctx,
			"",
			w.ResultQueue, // routing key
			false,         // mandatory
			false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Body:         data,
			})
		cancel()
		if err != nil {
			utils.FailOnNack(d, err)
			continue
		}
		if err := d.Ack(false); err != nil {
			utils.FailOnNack(d, err)
		}
	}
	return nil
}

// Run executes a single compute job. Invalid input is reported in the
// result instead of failing the worker.
func Run(job *ComputeJob) *ComputeResult {
	result := &ComputeResult{JobID: job.ID, GraphID: job.GraphID}
	strategy, err := rank.ParseStrategy(job.Strategy)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	g, err := graph.Build(job.Edges, job.Directed)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	params := rank.DefaultParams()
	params.Strategy = strategy
	if job.Damping != 0 {
		params.Damping = job.Damping
	}
	if job.Tolerance != 0 {
		params.Tolerance = job.Tolerance
	}
	if job.MaxIterations != 0 {
		params.MaxIterations = job.MaxIterations
	}
	start := time.Now()
	res, err := rank.Compute(g, job.Seeds, params)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Scores = res.Scores
	result.Converged = res.Converged
	result.Iterations = res.Iterations
	result.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000.0
	return result
}
