// Package listener runs the realtime capture and detection loop. The audio
// source and the classifier are external collaborators behind interfaces;
// this package only decides which detections are accepted, persists them and
// publishes them to MQTT.
package listener

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/errors"
	"github.com/dovewatch/dovewatch-go/internal/logging"
	"github.com/dovewatch/dovewatch-go/internal/mqtt"
	"github.com/dovewatch/dovewatch-go/internal/observability"
)

// Clip is one captured audio segment handed to the classifier.
type Clip struct {
	Samples    []float32
	SampleRate int
	Captured   time.Time // capture time, any zone; normalized by the store
	ClipName   string    // path of the saved audio file, empty when not exported
}

// Source yields captured audio clips. Next blocks until a clip is available,
// the source is exhausted (io.EOF) or ctx is canceled.
type Source interface {
	Next(ctx context.Context) (Clip, error)
}

// Result is the classifier's verdict for one clip.
type Result struct {
	Match      bool
	Species    string
	Confidence float64
}

// Classifier decides whether a clip contains a target call.
type Classifier interface {
	Classify(ctx context.Context, clip Clip) (Result, error)
}

// Listener consumes clips from a source, classifies them and records
// accepted detections. It is an explicit task: Run returns when ctx is
// canceled or the source is exhausted.
type Listener struct {
	source      Source
	classifier  Classifier
	ds          datastore.Interface
	publisher   mqtt.Client // nil when MQTT is disabled
	metrics     *observability.Metrics
	settings    *conf.Settings
	minInterval time.Duration
	log         *slog.Logger

	lastAccepted time.Time
}

// New creates a listener. The publisher and metrics may be nil.
func New(settings *conf.Settings, source Source, classifier Classifier, ds datastore.Interface, publisher mqtt.Client, metrics *observability.Metrics) *Listener {
	log := logging.ForService("listener")
	if log == nil {
		log = slog.Default().With("service", "listener")
	}
	return &Listener{
		source:      source,
		classifier:  classifier,
		ds:          ds,
		publisher:   publisher,
		metrics:     metrics,
		settings:    settings,
		minInterval: time.Duration(settings.Listener.MinInterval * float64(time.Second)),
		log:         log,
	}
}

// detectionMessage is the JSON payload published for each accepted detection.
type detectionMessage struct {
	EventType  string  `json:"event_type"`
	Timestamp  string  `json:"timestamp"`
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
	SourceNode string  `json:"source_node"`
	ClipName   string  `json:"clip_name,omitempty"`
}

// Run processes clips until ctx is canceled or the source reports io.EOF.
// Classifier and store errors are logged and the loop continues; only a
// canceled context or an exhausted source terminates it.
func (l *Listener) Run(ctx context.Context) error {
	l.log.Info("listener started", "min_interval", l.minInterval.String())

	for {
		clip, err := l.source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			l.log.Info("audio source exhausted, listener stopping")
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return ctx.Err()
		case err != nil:
			l.log.Error("failed to read audio clip", "error", err)
			// back off briefly so a broken source doesn't spin the loop
			select {
			case <-time.After(2 * time.Second):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := l.handleClip(ctx, clip); err != nil {
			l.log.Error("failed to handle detection", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (l *Listener) handleClip(ctx context.Context, clip Clip) error {
	result, err := l.classifier.Classify(ctx, clip)
	if err != nil {
		return err
	}
	if !result.Match {
		return nil
	}

	// debounce: a call often spans several consecutive clips
	if !l.lastAccepted.IsZero() && clip.Captured.Sub(l.lastAccepted) < l.minInterval {
		if l.metrics != nil {
			l.metrics.DetectionsDropped.WithLabelValues("debounced").Inc()
		}
		return nil
	}

	species := result.Species
	if species == "" {
		species = l.settings.Listener.Species
	}

	event := datastore.Event{
		Timestamp:  clip.Captured,
		Species:    species,
		Confidence: result.Confidence,
		ClipName:   clip.ClipName,
		SourceNode: l.settings.Main.Name,
	}

	if err := l.ds.Save(ctx, &event); err != nil {
		return err
	}

	l.lastAccepted = clip.Captured
	if l.metrics != nil {
		l.metrics.DetectionsTotal.WithLabelValues("listener").Inc()
	}
	l.log.Info("detection recorded",
		"species", event.Species,
		"confidence", event.Confidence,
		"timestamp", event.Timestamp.Format(time.RFC3339))

	l.publish(ctx, &event)
	return nil
}

// publish sends the detection to the MQTT topic, best effort.
func (l *Listener) publish(ctx context.Context, event *datastore.Event) {
	if l.publisher == nil || !l.settings.MQTT.Enabled {
		return
	}

	msg := detectionMessage{
		EventType:  "dove_detected",
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
		Species:    event.Species,
		Confidence: event.Confidence,
		SourceNode: event.SourceNode,
		ClipName:   event.ClipName,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		l.log.Error("failed to marshal detection message", "error", err)
		return
	}

	if err := l.publisher.Publish(ctx, l.settings.MQTT.Topic, string(payload)); err != nil {
		l.log.Warn("failed to publish detection", "error", err)
	}
}
