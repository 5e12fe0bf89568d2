package ntp

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	beevikntp "github.com/beevik/ntp"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-swarm-go/config"
)

var log = logger.GetOrCreate("ntp")

// NTPOptions defines the options used when querying the configured ntp hosts
type NTPOptions struct {
	Hosts   []string
	Version int
	Timeout time.Duration
}

// NewNTPOptions creates the query options from the time synchronization config section
func NewNTPOptions(ntpConfig config.NTPConfig) NTPOptions {
	return NTPOptions{
		Hosts:   ntpConfig.Hosts,
		Version: ntpConfig.Version,
		Timeout: time.Duration(ntpConfig.TimeoutInMilliseconds) * time.Millisecond,
	}
}

type queryFunc func(options NTPOptions, hostIndex int) (*beevikntp.Response, error)

func queryNTP(options NTPOptions, hostIndex int) (*beevikntp.Response, error) {
	if hostIndex < 0 || hostIndex >= len(options.Hosts) {
		return nil, ErrIndexOutOfBounds
	}

	queryOptions := beevikntp.QueryOptions{
		Timeout: options.Timeout,
		Version: options.Version,
	}

	response, err := beevikntp.QueryWithOptions(options.Hosts[hostIndex], queryOptions)
	if err != nil {
		return nil, err
	}

	err = response.Validate()
	if err != nil {
		return nil, err
	}

	return response, nil
}

// syncTime defines an object used for time synchronization. Until
// StartSyncingTime is called, or while every configured host is unreachable,
// the clock offset stays zero and CurrentTime serves the local wall-clock.
type syncTime struct {
	mut         sync.RWMutex
	clockOffset time.Duration
	syncPeriod  time.Duration
	ntpOptions  NTPOptions
	query       queryFunc
	cancelFunc  context.CancelFunc
}

// NewSyncTime creates a syncTime object. The customQueryFunc parameter is used
// in tests; providing nil selects the ntp-backed query.
func NewSyncTime(ntpConfig config.NTPConfig, customQueryFunc queryFunc) *syncTime {
	chosenQueryFunc := customQueryFunc
	if chosenQueryFunc == nil {
		chosenQueryFunc = queryNTP
	}

	return &syncTime{
		syncPeriod: time.Duration(ntpConfig.SyncPeriodInSec) * time.Second,
		ntpOptions: NewNTPOptions(ntpConfig),
		query:      chosenQueryFunc,
	}
}

// StartSyncingTime starts the time synchronization loop as a go routine
func (s *syncTime) StartSyncingTime() {
	var ctx context.Context
	ctx, s.cancelFunc = context.WithCancel(context.Background())
	go s.startSync(ctx)
}

func (s *syncTime) startSync(ctx context.Context) {
	for {
		s.sync()

		select {
		case <-ctx.Done():
			log.Debug("syncTime's go routine is stopping...")
			return
		case <-time.After(s.syncPeriod):
		}
	}
}

func (s *syncTime) sync() {
	clockOffsets := make([]time.Duration, 0, len(s.ntpOptions.Hosts))
	for hostIndex := range s.ntpOptions.Hosts {
		response, err := s.query(s.ntpOptions, hostIndex)
		if err != nil {
			log.Debug("ntp query failed",
				"host", s.ntpOptions.Hosts[hostIndex],
				"error", err.Error())
			continue
		}

		clockOffsets = append(clockOffsets, response.ClockOffset)
	}

	if len(clockOffsets) == 0 {
		log.Warn("no ntp host could be reached, keeping the previous clock offset",
			"clock offset", s.ClockOffset())
		return
	}

	offsets := s.getClockOffsetsWithoutEdges(clockOffsets)
	s.setClockOffset(s.getMeanOffset(offsets))

	log.Debug("ntp time synchronized",
		"num hosts responded", len(clockOffsets),
		"clock offset", s.ClockOffset())
}

func (s *syncTime) getClockOffsetsWithoutEdges(clockOffsets []time.Duration) []time.Duration {
	if len(clockOffsets) < 3 {
		return clockOffsets
	}

	sorted := make([]time.Duration, len(clockOffsets))
	copy(sorted, clockOffsets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return sorted[1 : len(sorted)-1]
}

func (s *syncTime) getMeanOffset(clockOffsets []time.Duration) time.Duration {
	if len(clockOffsets) == 0 {
		return 0
	}

	sum := time.Duration(0)
	for _, offset := range clockOffsets {
		sum += offset
	}

	return sum / time.Duration(len(clockOffsets))
}

func (s *syncTime) setClockOffset(clockOffset time.Duration) {
	s.mut.Lock()
	s.clockOffset = clockOffset
	s.mut.Unlock()
}

// ClockOffset returns the current offset between the local clock and the ntp reference
func (s *syncTime) ClockOffset() time.Duration {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.clockOffset
}

// CurrentTime returns the local time adjusted with the current clock offset
func (s *syncTime) CurrentTime() time.Time {
	return time.Now().Add(s.ClockOffset())
}

// FormattedCurrentTime returns the current time formatted for logging
func (s *syncTime) FormattedCurrentTime() string {
	return s.formatTime(s.CurrentTime())
}

func (s *syncTime) formatTime(t time.Time) string {
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d.%09d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

// Close stops the time synchronization loop
func (s *syncTime) Close() error {
	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	return nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (s *syncTime) IsInterfaceNil() bool {
	return s == nil
}
