package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// requester is the part of *nats.Conn the client uses.
type requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// Client sends tile queries to a Server over NATS.
type Client struct {
	nc       requester
	subject  string
	timeout  time.Duration
	attempts uint
}

func NewClient(nc *nats.Conn, subject string) *Client {
	return newClient(nc, subject)
}

func newClient(nc requester, subject string) *Client {
	return &Client{nc: nc, subject: subject, timeout: 10 * time.Second, attempts: 3}
}

// RemoteError is a failure reported by the server, such as a word list that
// did not load.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "server returned: " + e.Message
}

func transient(err error) bool {
	return errors.Is(err, nats.ErrTimeout) || errors.Is(err, nats.ErrNoResponders) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Query asks the server for the words that tiles can build. Requests that
// time out or find no responder are retried; errors reported by the server
// are not.
func (c *Client) Query(ctx context.Context, req QueryRequest) ([]string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var resp QueryResponse
	err = retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			m, err := c.nc.RequestWithContext(rctx, c.subject, data)
			if err != nil {
				return err
			}
			resp = QueryResponse{}
			if err := json.Unmarshal(m.Data, &resp); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(transient),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("n", n).Msg("query-failed-try-again")
		}),
	)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &RemoteError{Message: resp.Error}
	}
	return resp.Words, nil
}
