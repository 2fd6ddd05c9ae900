package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	RoundLatency   = metric.NewHistogram("1m1s")
	RouteChanges   = metric.NewCounter("1m1s")
	Advertisements = metric.NewCounter("1m1s")
	LoopRejections = metric.NewCounter("1m1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("dvsim:RoundLatency (µs)", RoundLatency)
	expvar.Publish("dvsim:RouteChanges", RouteChanges)
	expvar.Publish("dvsim:Advertisements", Advertisements)
	expvar.Publish("dvsim:LoopRejections", LoopRejections)
}
