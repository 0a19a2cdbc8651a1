package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/rep-counter/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string { return stateOrUnknown(s) },
	"stamp": func(t time.Time) string {
		return t.UTC().Format("2006-01-02T15:04:05Z")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Rep Counter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.count { font-size: 2em; font-weight: bold; }
.active { color: green; font-weight: bold; }
.idle { color: #888; }
.ended { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Rep Counter</h1>

<h2>Session</h2>
<table>
<tr><th>State</th><td id="state" class="{{if eq (stateOrUnknown (printf "%s" .State)) "ACTIVE"}}active{{else if eq (stateOrUnknown (printf "%s" .State)) "IDLE"}}idle{{else}}ended{{end}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Count</th><td id="count" class="count">{{.Count}}</td></tr>
{{if .LastEvent}}<tr><th>Last event</th><td>{{stamp .LastEvent.Timestamp}} ({{printf "%.2f" .LastEvent.Value}})</td></tr>{{end}}
{{if .HasRaw}}<tr><th>Last reading</th><td>{{printf "%.2f" .LastRaw}}</td></tr>{{end}}
<tr><th>Samples</th><td>{{.Samples}}</td></tr>
<tr><th>Invalid samples</th><td>{{.InvalidSamples}}</td></tr>
</table>

{{if .LastSummary}}<h2>Last Session</h2>
<table>
<tr><th>Count</th><td>{{.LastSummary.Count}}</td></tr>
<tr><th>Ended</th><td>{{stamp .LastSummary.Ended}} ({{.LastSummary.Reason}})</td></tr>
<tr><th>Duration</th><td>{{uptime .LastSummary.Duration}}</td></tr>
</table>
{{end}}
<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{stamp .StartTime}}</td></tr>
<tr><th>Sessions</th><td>{{.Sessions}}</td></tr>
<tr><th>Sensor</th><td>{{.Config.Sensor}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Idle timeout</th><td>{{.Config.IdleTimeoutMs}}ms</td></tr>
<tr><th>Thresholds</th><td>{{.Config.ThresholdDown}} / {{.Config.ThresholdUp}}</td></tr>
<tr><th>Max events</th><td>{{.Config.MaxEvents}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
