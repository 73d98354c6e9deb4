package forum

import (
	"log/slog"
	"net/http"

	"forum-reader/internal/handler/http/respond"
	"forum-reader/internal/observability/logging"
	"forum-reader/internal/observability/metrics"
	"forum-reader/internal/usecase/question"
)

// QuestionHandler serves a question page with one page of answers, or the
// question's answer feed.
type QuestionHandler struct {
	Svc    *question.Service
	Logger *slog.Logger
}

func (h QuestionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	res, err := h.Svc.Show(r.Context(), questionRequest(r), id)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	switch {
	case res.Redirect != "":
		code := http.StatusFound
		if res.Permanent {
			code = http.StatusMovedPermanently
		}
		http.Redirect(w, r, res.Redirect, code)
	case res.Feed != nil:
		metrics.RecordListing("answers", true)
		writeFeed(w, res.Feed)
	default:
		metrics.RecordListing("answers", false)
		respond.JSON(w, http.StatusOK, questionPageDTO(res.Page))
	}
}

func questionPageDTO(p *question.Page) QuestionPageDTO {
	q := questionDTO(p.Question)
	q.Body = p.Question.Body

	answers := make([]AnswerDTO, 0, len(p.Answers.Items))
	for _, a := range p.Answers.Items {
		answers = append(answers, answerDTO(a))
	}
	return QuestionPageDTO{
		Question:   q,
		Answers:    answers,
		Pagination: paginationDTO(p.Answers.Metadata, p.Selection, p.Sorts, p.Links, p.Navigation),
		FeedURL:    p.FeedURL,
		Subscribed: p.Subscribed,
		Related:    questionDTOs(p.Related),
	}
}

// AnswerPermalinkHandler redirects an answer permalink to the question
// page holding the answer. The target moves as votes change, so the
// redirect is temporary.
type AnswerPermalinkHandler struct {
	Svc    *question.Service
	Logger *slog.Logger
}

func (h AnswerPermalinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	qid, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	aid, err := pathID(r, "answer")
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	target, err := h.Svc.AnswerURL(r.Context(), questionRequest(r), qid, aid)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}
