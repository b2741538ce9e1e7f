package metrics

import (
	"sync"
	"time"
)

// Metrics keeps in-process counters for the interview engine.
type Metrics struct {
	mu                     sync.RWMutex
	interviewsStarted      int64
	interviewsFinished     int64
	answersProcessed       int64
	gatewayCallsTotal      int64
	gatewayCallsSuccessful int64
	lastUpdateTime         time.Time
}

// Snapshot is a point-in-time copy of the counters, safe to serialize.
type Snapshot struct {
	InterviewsStarted      int64     `json:"interviews_started"`
	InterviewsFinished     int64     `json:"interviews_finished"`
	AnswersProcessed       int64     `json:"answers_processed"`
	GatewayCallsTotal      int64     `json:"gateway_calls_total"`
	GatewayCallsSuccessful int64     `json:"gateway_calls_successful"`
	LastUpdateTime         time.Time `json:"last_update_time"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		lastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementInterviewsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviewsStarted++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementInterviewsFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviewsFinished++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answersProcessed++
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) IncrementGatewayCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gatewayCallsTotal++
	if success {
		m.gatewayCallsSuccessful++
	}
	m.lastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		InterviewsStarted:      m.interviewsStarted,
		InterviewsFinished:     m.interviewsFinished,
		AnswersProcessed:       m.answersProcessed,
		GatewayCallsTotal:      m.gatewayCallsTotal,
		GatewayCallsSuccessful: m.gatewayCallsSuccessful,
		LastUpdateTime:         m.lastUpdateTime,
	}
}
