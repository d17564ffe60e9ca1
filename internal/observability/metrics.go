package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProdutosIngeridos = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "produtos_ingeridos_total",
			Help: "Total de produtos upsertados pela ingestão",
		},
	)
	ChunksInseridos = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chunks_inseridos_total",
			Help: "Total de chunks de texto inseridos",
		},
	)
	ImageChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_checks_total",
			Help: "Total de verificações de imagem por desfecho",
		},
		[]string{"outcome"},
	)
)

func Start(port string) {
	prometheus.MustRegister(ProdutosIngeridos, ChunksInseridos, ImageChecks)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
