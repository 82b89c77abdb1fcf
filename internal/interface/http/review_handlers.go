package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domcomment "example.com/storefront/internal/domain/comment"
	domquestion "example.com/storefront/internal/domain/question"
	domuser "example.com/storefront/internal/domain/user"
	commentuc "example.com/storefront/internal/usecase/comment"
	questionuc "example.com/storefront/internal/usecase/question"
)

// viewerID is the signed-in reader, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	if u := getAuthUser(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

func isModerator(u *authUser) bool {
	return u.RoleCode == domuser.RoleCodeAdmin || u.RoleCode == domuser.RoleCodeSuperAdmin
}

type createCommentRequest struct {
	Title   string `json:"title" validate:"required"`
	Rate    *int   `json:"rate" validate:"required"`
	Content string `json:"content" validate:"required"`
	Origin  string `json:"origin"`
}

func (a *API) handleListComments(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	comments, err := a.commentSvc.List(r.Context(), domcomment.ListFilter{
		ProductID: productID,
		Search:    r.URL.Query().Get("q"),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	viewer := viewerID(r)
	resp := make([]map[string]any, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, mapComment(c, viewer))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetComment(w http.ResponseWriter, r *http.Request) {
	c, err := a.commentSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapComment(c, viewerID(r)))
}

func (a *API) handleProductRating(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := a.commentSvc.Ratings(r.Context(), productID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRatingSummary(summary))
}

func (a *API) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req createCommentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.commentSvc.Create(r.Context(), commentuc.CreateInput{
		ProductID: productID,
		Author:    domcomment.Author{UserID: user.ID, Username: user.Name},
		Title:     req.Title,
		Rate:      *req.Rate,
		Content:   req.Content,
		Origin:    req.Origin,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapComment(c, user.ID))
}

func (a *API) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	err := a.commentSvc.Delete(r.Context(), commentuc.DeleteInput{
		ID:        chi.URLParam(r, "id"),
		UserID:    user.ID,
		Moderator: isModerator(user),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	c, err := a.commentSvc.ToggleLike(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapComment(c, user.ID))
}

type createQuestionRequest struct {
	Question string `json:"question" validate:"required"`
}

type answerRequest struct {
	Content string `json:"content" validate:"required"`
}

type voteRequest struct {
	Value int `json:"value" validate:"oneof=-1 1"`
}

func (a *API) handleListProductQuestions(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	a.listQuestions(w, r, domquestion.ListFilter{ProductID: &productID, Search: r.URL.Query().Get("q")})
}

func (a *API) handleSearchQuestions(w http.ResponseWriter, r *http.Request) {
	a.listQuestions(w, r, domquestion.ListFilter{Search: r.URL.Query().Get("q")})
}

func (a *API) listQuestions(w http.ResponseWriter, r *http.Request, filter domquestion.ListFilter) {
	questions, err := a.questionSvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	viewer := viewerID(r)
	resp := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, mapQuestion(q, viewer))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := a.questionSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapQuestion(q, viewerID(r)))
}

func (a *API) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	productID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req createQuestionRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	q, err := a.questionSvc.Create(r.Context(), questionuc.CreateInput{
		ProductID: productID,
		Author:    domquestion.Author{UserID: user.ID, Username: user.Name},
		Text:      req.Question,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapQuestion(q, user.ID))
}

func (a *API) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	err := a.questionSvc.Delete(r.Context(), questionuc.DeleteInput{
		ID:        chi.URLParam(r, "id"),
		UserID:    user.ID,
		Moderator: isModerator(user),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAnswerQuestion(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	var req answerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	q, err := a.questionSvc.Answer(r.Context(), questionuc.AnswerInput{
		QuestionID: chi.URLParam(r, "id"),
		Author:     domquestion.Author{UserID: user.ID, Username: user.Name},
		Content:    req.Content,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapQuestion(q, user.ID))
}

func (a *API) handleVoteQuestion(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	var req voteRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	q, err := a.questionSvc.Vote(r.Context(), chi.URLParam(r, "id"), user.ID, req.Value)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapQuestion(q, user.ID))
}
