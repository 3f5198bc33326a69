package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfoOnce sync.Once

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "farmchain_build_info",
			Help: "FarmChainX build information.",
		},
		[]string{"component", "version"},
	)
)

// InitBuildInfo registers build_info once and sets the sample for component.
func InitBuildInfo(component, version string) {
	buildInfoOnce.Do(func() {
		prometheus.MustRegister(buildInfo)
	})
	buildInfo.WithLabelValues(component, version).Set(1)
}
