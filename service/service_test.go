package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/nats-io/nats.go"

	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
	"github.com/domino14/wordformations/testhelpers"
)

func toyServer() *Server {
	return NewServer(config.DefaultConfig(), testhelpers.ToyDictionary())
}

func decode(t *testing.T, data []byte) QueryResponse {
	var resp QueryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandle(t *testing.T) {
	is := is.New(t)
	s := toyServer()
	ctx := context.Background()

	resp := decode(t, s.Handle(ctx, []byte(`{"tiles":"CATS","min_length":3}`)))
	is.Equal(resp.Words, []string{"CAT", "CATS"})
	is.Equal(resp.Count, 2)
	is.Equal(resp.Error, "")

	resp = decode(t, s.Handle(ctx, []byte(`{"tiles":"STAC","mode":"exact"}`)))
	is.Equal(resp.Words, []string{"CATS"})

	resp = decode(t, s.Handle(ctx, []byte(`{"tiles":""}`)))
	is.Equal(resp.Words, []string{})
	is.Equal(resp.Count, 0)

	resp = decode(t, s.Handle(ctx, []byte(`{"tiles":"CATS","mode":"sideways"}`)))
	is.Equal(resp.Error, `unknown mode "sideways"`)

	resp = decode(t, s.Handle(ctx, []byte(`not json`)))
	is.True(resp.Error != "")
}

func TestHandleLoadFailure(t *testing.T) {
	is := is.New(t)
	d := dictionary.LoadFrom("gone.txt", dictionary.ResourceOpener(t.TempDir()), time.Second)
	s := NewServer(config.DefaultConfig(), d)
	resp := decode(t, s.Handle(context.Background(), []byte(`{"tiles":"CATS"}`)))
	is.Equal(resp.Words, []string{})
	is.True(resp.Error != "")
}

type fakeConn struct {
	server *Server
	fails  []error
	calls  int
}

func (f *fakeConn) RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error) {
	f.calls++
	if len(f.fails) > 0 {
		err := f.fails[0]
		f.fails = f.fails[1:]
		return nil, err
	}
	return &nats.Msg{Subject: subj, Data: f.server.Handle(ctx, data)}, nil
}

func TestClientRetriesTransientErrors(t *testing.T) {
	is := is.New(t)
	fc := &fakeConn{server: toyServer(), fails: []error{nats.ErrNoResponders, nats.ErrTimeout}}
	c := newClient(fc, "wordformations.query")
	words, err := c.Query(context.Background(), QueryRequest{Tiles: "CATS"})
	is.NoErr(err)
	is.Equal(words, []string{"AT", "TA", "CAT", "CATS"})
	is.Equal(fc.calls, 3)
}

func TestClientGivesUp(t *testing.T) {
	is := is.New(t)
	fc := &fakeConn{server: toyServer(),
		fails: []error{nats.ErrTimeout, nats.ErrTimeout, nats.ErrTimeout, nats.ErrTimeout}}
	c := newClient(fc, "wordformations.query")
	_, err := c.Query(context.Background(), QueryRequest{Tiles: "CATS"})
	is.True(errors.Is(err, nats.ErrTimeout))
	is.Equal(fc.calls, 3)
}

func TestClientDoesNotRetryOtherErrors(t *testing.T) {
	is := is.New(t)
	fc := &fakeConn{server: toyServer(), fails: []error{nats.ErrConnectionClosed}}
	c := newClient(fc, "wordformations.query")
	_, err := c.Query(context.Background(), QueryRequest{Tiles: "CATS"})
	is.True(errors.Is(err, nats.ErrConnectionClosed))
	is.Equal(fc.calls, 1)
}

func TestClientRemoteError(t *testing.T) {
	is := is.New(t)
	fc := &fakeConn{server: toyServer()}
	c := newClient(fc, "wordformations.query")
	_, err := c.Query(context.Background(), QueryRequest{Tiles: "CATS", Mode: "nope"})
	var re *RemoteError
	is.True(errors.As(err, &re))
	is.Equal(fc.calls, 1)
}
