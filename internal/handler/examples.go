package handler

import (
	"net/http"

	"github.com/melodex/melodex/internal/models"
)

// exampleQuestions seed the question input in clients. The dataset is
// Korean-first, so the prompts are too.
var exampleQuestions = []string{
	"가장 인기 있는 장르 TOP 10은?",
	"댄스 지수가 0.8 이상인 곡은?",
	"장르별 평균 템포를 보여줘",
	"에너지가 높은 곡 TOP 20",
	"인기도가 80 이상인 곡의 평균 특성은?",
	"가장 긴 곡과 가장 짧은 곡은?",
	"장르별 곡 개수를 보여줘",
	"템포가 120 이상인 곡 중 인기 있는 곡은?",
	"어쿠스틱 지수가 높은 장르는?",
	"라이브 녹음 비율이 높은 곡들은?",
}

// ExamplesHandler serves GET /api/v1/examples
type ExamplesHandler struct{}

func NewExamplesHandler() *ExamplesHandler {
	return &ExamplesHandler{}
}

func (h *ExamplesHandler) Examples(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.ExamplesResponse{
		Status:    "success",
		Questions: exampleQuestions,
	})
}
