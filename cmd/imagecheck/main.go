package main

import (
	"log"
	"net/http"

	"apiprodutos/internal/config"
	"apiprodutos/internal/imagecheck"
	"apiprodutos/internal/observability"
)

func main() {
	cfg := config.Load()

	observability.Start(cfg.MetricsPort)

	checker := &imagecheck.Checker{
		Cache:  imagecheck.NewImageCache(cfg),
		Source: imagecheck.NewSourceClient(cfg),
		Picker: imagecheck.NewImagePicker(cfg),
	}

	http.Handle("/imagem/existe", imagecheck.Handler(checker))

	log.Printf("Verificador de imagens rodando :%s", cfg.HTTPPort)
	http.ListenAndServe(":"+cfg.HTTPPort, nil)
}
