package main

import (
	"github.com/ic2hrmk/promtail"
	"github.com/sirupsen/logrus"
)

func (a *App) initPromTail() error {
	identifiers := map[string]string{
		"instanceId": a.Name,
	}

	promTail, err := promtail.NewJSONv1Client(a.Config.LokiAddr, identifiers)
	if err != nil {
		return err
	}

	a.PromTail = promTail
	a.Logger.AddHook(&promTailHook{client: promTail})

	return nil
}

// promTailHook forwards log entries to Loki.
type promTailHook struct {
	client promtail.Client
}

func (h *promTailHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

func (h *promTailHook) Fire(entry *logrus.Entry) error {
	switch entry.Level {
	case logrus.ErrorLevel:
		h.client.Logf(promtail.Error, "%s", entry.Message)
	case logrus.WarnLevel:
		h.client.Logf(promtail.Warn, "%s", entry.Message)
	default:
		h.client.Logf(promtail.Info, "%s", entry.Message)
	}

	return nil
}
