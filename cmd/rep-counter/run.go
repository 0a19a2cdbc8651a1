package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/viper"

	"github.com/sweeney/rep-counter/internal/config"
	"github.com/sweeney/rep-counter/internal/display"
	"github.com/sweeney/rep-counter/internal/engine"
	"github.com/sweeney/rep-counter/internal/logging"
	"github.com/sweeney/rep-counter/internal/logic"
	"github.com/sweeney/rep-counter/internal/metrics"
	"github.com/sweeney/rep-counter/internal/mqtt"
	"github.com/sweeney/rep-counter/internal/pacer"
	"github.com/sweeney/rep-counter/internal/status"
	"github.com/sweeney/rep-counter/internal/web"
)

func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	cfg, err := config.Load(v, path)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func readConfig(v *viper.Viper, path string) (config.Config, error) {
	cfg, err := config.Read(v, path)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func runDaemon(ctx context.Context, cfg config.Config, once bool) error {
	defer logging.Setup(cfg.Log)()
	if ctx == nil {
		ctx = context.Background()
	}

	hw := &hardware{}
	defer func() {
		if err := hw.Close(); err != nil {
			log.Printf("release hardware: %v", err)
		}
	}()
	driver, err := hw.openDisplay(cfg)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	source, err := hw.openSource(cfg)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	m := metrics.New()
	observers := []engine.Observer{tracker, m}

	if hw.edges != nil {
		m.CounterFunc("pir_dropped_edges_total", "PIR edges dropped because the queue was full.", hw.edges.Dropped)
	}

	var publisher mqtt.Publisher
	var link mqtt.ConnectionStatus
	var reporter *mqtt.Reporter
	if cfg.MQTT.Broker != "" {
		p := mqtt.NewRealPublisher(mqtt.Options{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		})
		defer p.Close()
		publisher, link = p, p
		reporter = mqtt.NewReporter(p, mqtt.DefaultReporterQueue)
		defer reporter.Close()
		observers = append(observers, reporter, &linkObserver{tracker: tracker, link: link})
		m.GaugeFunc("mqtt_buffered_messages", "Messages held until the broker is reachable.",
			func() float64 { return float64(p.Buffered()) })
		m.CounterFunc("mqtt_dropped_counts_total", "Count updates dropped while the publisher was behind.",
			reporter.Dropped)
		publishSystem(publisher, mqtt.SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true})
	}

	// Start HTTP status server
	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var renderer engine.Renderer = driver
	if cfg.Display.Refresh > 0 {
		r := display.NewRefresher(driver)
		m.CounterFunc("display_frames_total", "Frames painted by the display refresher.", r.Frames)
		rp := pacer.New(clock.New(), cfg.Display.Refresh)
		go rp.Run(ctx)
		done := make(chan struct{})
		go func() {
			r.Run(ctx, rp.C())
			close(done)
		}()
		defer func() {
			cancel()
			<-done
		}()
		renderer = r
	} else {
		defer driver.Off()
	}

	eng, err := engine.New(cfg.Engine(), source, renderer, time.Now, observers...)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	stopped, _ := watchSignals(ctx, sigCh, cancel)

	tick := pacer.New(clock.New(), cfg.Tick)
	go tick.Run(ctx)

	log.Printf("started: sensor=%s tick=%v idle=%v thresholds=%v/%v broker=%q",
		cfg.Sensor.Kind, cfg.Tick, cfg.Session.IdleTimeout,
		cfg.Detector.ThresholdDown, cfg.Detector.ThresholdUp, cfg.MQTT.Broker)

	sessions := sessionLoop(ctx, eng, tick.C(), once)
	if n := tick.Skipped(); n > 0 {
		log.Printf("pacer: %d ticks skipped", n)
	}

	reason := "COMPLETE"
	select {
	case name := <-stopped:
		reason = name
	default:
	}
	log.Printf("shutting down after %d session(s): %s", sessions, reason)
	if reporter != nil {
		// flush the last summary ahead of SHUTDOWN
		reporter.Close()
	}
	if publisher != nil {
		publishSystem(publisher, mqtt.SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN", Reason: reason, Retained: true})
	}
	return nil
}

// sessionLoop runs sessions back to back until ctx is done, the tick
// channel closes, or after the first one when once is set. It returns the
// number of sessions run.
func sessionLoop(ctx context.Context, eng *engine.Engine, tick <-chan time.Time, once bool) int {
	n := 0
	for {
		s := eng.Run(ctx, tick)
		n++
		if once || s.Reason == logic.ReasonStopped || ctx.Err() != nil {
			return n
		}
	}
}

// watchSignals cancels on the first signal and reports its name. The
// watcher exits, closing done, after a signal or once ctx is done.
func watchSignals(ctx context.Context, sig <-chan os.Signal, cancel context.CancelFunc) (stopped <-chan string, done <-chan struct{}) {
	out := make(chan string, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case s, ok := <-sig:
			if !ok {
				return
			}
			log.Printf("received %v, shutting down", s)
			out <- signalName(s)
			cancel()
		case <-ctx.Done():
		}
	}()
	return out, finished
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func publishSystem(p mqtt.Publisher, ev mqtt.SystemEvent) {
	if err := p.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", ev.Event, err)
		return
	}
	log.Printf("published %s event", ev.Event)
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		TickMs:        cfg.Tick.Milliseconds(),
		IdleTimeoutMs: cfg.Session.IdleTimeout.Milliseconds(),
		ThresholdUp:   cfg.Detector.ThresholdUp,
		ThresholdDown: cfg.Detector.ThresholdDown,
		MaxEvents:     cfg.Session.MaxEvents,
		Digits:        cfg.Display.Digits,
		Sensor:        cfg.Sensor.Kind,
		Broker:        cfg.MQTT.Broker,
		HTTPAddr:      cfg.HTTP,
	}
}

// linkObserver mirrors the MQTT connection state into the tracker on every
// engine callback.
type linkObserver struct {
	tracker *status.Tracker
	link    mqtt.ConnectionStatus
}

func (o *linkObserver) refresh() { o.tracker.SetMQTTConnected(o.link.IsConnected()) }

func (o *linkObserver) Started(time.Time)               { o.refresh() }
func (o *linkObserver) Sampled(logic.Sample)            { o.refresh() }
func (o *linkObserver) Invalid(time.Time, error)        { o.refresh() }
func (o *linkObserver) Accepted(logic.MotionEvent, int) { o.refresh() }
func (o *linkObserver) Ended(logic.Summary)             { o.refresh() }
