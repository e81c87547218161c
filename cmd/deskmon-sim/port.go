package main

import (
	"bufio"
	"context"
	"errors"
	"io"
)

var errNoData = errors.New("no data")

// chanPort adapts a blocking reader to the non-blocking serial.Port the
// monitor polls, like a UART receive FIFO.
type chanPort struct {
	ch   chan byte
	done chan struct{}
}

func newChanPort(size int) *chanPort {
	return &chanPort{
		ch:   make(chan byte, size),
		done: make(chan struct{}),
	}
}

func (p *chanPort) Buffered() int {
	return len(p.ch)
}

func (p *chanPort) ReadByte() (byte, error) {
	select {
	case b := <-p.ch:
		return b, nil
	default:
		return 0, errNoData
	}
}

// fill copies r into the FIFO until EOF or ctx is done. Done is closed on
// return either way.
func (p *chanPort) fill(ctx context.Context, r io.Reader) error {
	defer close(p.done)

	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case p.ch <- b:
		case <-ctx.Done():
			return nil
		}
	}
}

// drained reports whether the input has ended and every byte was consumed.
func (p *chanPort) drained() bool {
	select {
	case <-p.done:
		return len(p.ch) == 0
	default:
		return false
	}
}
