package imagecheck

import (
	"encoding/json"
	"net/http"
)

type CheckRequest struct {
	ProdutoID string `json:"produto_id"`
}

// Handler expõe o verificador via HTTP. A resposta tem sempre os mesmos
// dois campos, qualquer que seja o caminho percorrido.
func Handler(checker *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CheckRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := checker.Check(r.Context(), req.ProdutoID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
