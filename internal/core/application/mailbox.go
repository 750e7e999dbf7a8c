package application

import (
	"context"
	"fmt"

	"github.com/ark-network/launchsite/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// request is a unit of work for the goroutine owning the launch site. exec runs
// with exclusive access to the site; if it returns no error every event it
// raised is committed before the reply is sent.
type request struct {
	name  string
	exec  func(site *domain.LaunchSite) (interface{}, error)
	reply chan response
}

type response struct {
	result interface{}
	err    error
}

func (s *service) submit(
	ctx context.Context, name string,
	exec func(site *domain.LaunchSite) (interface{}, error),
) (interface{}, error) {
	if !s.isStarted() {
		return nil, ErrServiceNotStarted
	}

	req := request{name, exec, make(chan response, 1)}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrServiceStopped
	case s.mailbox <- req:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-req.reply:
		return res.result, res.err
	}
}

func (s *service) listen() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case req := <-s.mailbox:
			s.handle(req)
		}
	}
}

func (s *service) handle(req request) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic while handling %s: %v", req.name, r)
			req.reply <- response{err: fmt.Errorf("%s failed: %v", req.name, r)}
		}
	}()

	result, err := req.exec(s.site)
	if err != nil {
		log.WithError(err).Debugf("%s rejected", req.name)
		req.reply <- response{err: err}
		return
	}

	s.commitPending()
	req.reply <- response{result: result}
}
