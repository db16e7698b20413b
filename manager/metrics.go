package manager

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a Manager reports to, mirroring the
// shards-alive/packets-sent/packets-received/ping style of instrumentation common to gateway
// proxies. A nil *Metrics disables all reporting; every call site guards against it.
type Metrics struct {
	heartbeatsSent *prometheus.CounterVec
	commandsSent   *prometheus.CounterVec
	eventsReceived *prometheus.CounterVec
	reconnects     *prometheus.CounterVec
	forcedResumes  prometheus.Counter
}

// NewMetrics constructs a Metrics and registers its collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		heartbeatsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "discord_gateway",
			Subsystem: "manager",
			Name:      "heartbeats_sent_total",
			Help:      "Heartbeat commands sent to the gateway.",
		}, nil),
		commandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "discord_gateway",
			Subsystem: "manager",
			Name:      "commands_sent_total",
			Help:      "Gateway commands sent, labeled by kind.",
		}, []string{"kind"}),
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "discord_gateway",
			Subsystem: "manager",
			Name:      "dispatch_events_total",
			Help:      "Dispatch events surfaced to the application, labeled by event name.",
		}, []string{"name"}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "discord_gateway",
			Subsystem: "manager",
			Name:      "reconnects_total",
			Help:      "Transport reconnects attempted, labeled by trigger.",
		}, []string{"reason"}),
		forcedResumes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "discord_gateway",
			Subsystem: "manager",
			Name:      "forced_resumes_total",
			Help:      "Reconnects forced by a heartbeat ack never arriving before the next tick.",
		}),
	}

	reg.MustRegister(m.heartbeatsSent, m.commandsSent, m.eventsReceived, m.reconnects, m.forcedResumes)
	return m
}

func commandKindLabel(kind int) string {
	names := map[int]string{
		0: "identify",
		1: "resume",
		2: "heartbeat",
		3: "request_guild_members",
		4: "update_voice_state",
		5: "update_presence",
	}
	if name, ok := names[kind]; ok {
		return name
	}
	return "unknown"
}
