package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clubsoiree/sondage/internal/middleware"
	"github.com/clubsoiree/sondage/internal/services"
)

// Options tunes the router; zero values fall back to the defaults the
// original deployment used.
type Options struct {
	AdminPassword   string
	AnswerThreshold int
	RateInterval    time.Duration
	ModerationTTL   time.Duration
}

type Router struct {
	store      Store
	answers    *services.AnswerService
	questions  *services.QuestionService
	export     *services.ExportService
	auth       *services.AdminAuth
	limiter    *middleware.RateLimiter
	moderation *moderationCache
	threshold  int
}

func NewRouter(store Store, opts Options) (*Router, error) {
	if opts.AnswerThreshold <= 0 {
		opts.AnswerThreshold = 100
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = 800 * time.Millisecond
	}
	if opts.ModerationTTL <= 0 {
		opts.ModerationTTL = 30 * time.Second
	}
	auth, err := services.NewAdminAuth(opts.AdminPassword, middleware.SignAdminToken)
	if err != nil {
		return nil, err
	}
	return &Router{
		store:      store,
		answers:    services.NewAnswerService(store),
		questions:  services.NewQuestionService(store),
		export:     services.NewExportService(store),
		auth:       auth,
		limiter:    middleware.NewRateLimiter(opts.RateInterval),
		moderation: newModerationCache(opts.ModerationTTL),
		threshold:  opts.AnswerThreshold,
	}, nil
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/questions/next", rt.handleNextQuestion)               // GET
	mux.HandleFunc("/api/questions/", rt.handleQuestionScoped)                 // POST {id}/skip
	mux.Handle("/api/answers", rt.limiter.Wrap(http.HandlerFunc(rt.handleSubmitAnswer))) // POST

	mux.HandleFunc("/api/admin/login", rt.handleLogin)
	mux.HandleFunc("/api/admin/check", rt.handleCheck)
	mux.HandleFunc("/api/admin/logout", rt.handleLogout)

	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }
	mux.Handle("/api/admin/stats", admin(rt.handleStats))
	mux.Handle("/api/admin/categories", admin(rt.handleCategories))
	mux.Handle("/api/admin/questions", admin(rt.handleQuestions))
	mux.Handle("/api/admin/questions/", admin(rt.handleQuestionAdminScoped))
	mux.Handle("/api/admin/merge", admin(rt.handleMerge))
	mux.Handle("/api/admin/banned-words", admin(rt.handleBannedWords))
	mux.Handle("/api/admin/banned-words/", admin(rt.handleBannedWordScoped))
	mux.Handle("/api/admin/corrections", admin(rt.handleCorrections))
	mux.Handle("/api/admin/corrections/", admin(rt.handleCorrectionScoped))
	mux.Handle("/api/admin/settings", admin(rt.handleSettings))
	mux.Handle("/api/admin/export", admin(rt.handleExport))
	mux.Handle("/api/admin/reset", admin(rt.handleReset))
}

// --- Plumbing ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var rejectionMessages = map[services.ErrorCode]string{
	services.ErrorEmptyOrOversize: "Réponse trop courte ou trop longue",
	services.ErrorGibberish:       "Réponse incohérente",
	services.ErrorBanned:          "Réponse incohérente",
	services.ErrorQuestionFull:    "Cette question a déjà assez de réponses",
}

func errorStatus(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid, services.ErrorEmptyOrOversize, services.ErrorGibberish, services.ErrorBanned:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorQuestionFull:
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "erreur interne"})
		return
	}
	msg := se.Message
	if fr, ok := rejectionMessages[se.Code]; ok {
		msg = fr
	}
	writeJSON(w, errorStatus(se.Code), map[string]any{"error": msg, "code": se.Code})
}

func pathID(r *http.Request, prefix string) (int64, string, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	return id, sub, true
}

// --- Public survey API ---

// GET /api/questions/next?exclude=[1,2,3]
func (rt *Router) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var exclude []int64
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		// Malformed exclude lists are ignored rather than rejected; the
		// survey page keeps working with a fresh localStorage.
		_ = json.Unmarshal([]byte(raw), &exclude)
	}
	q := rt.store.RandomOpenQuestion(exclude, rt.threshold)
	if q == nil {
		writeJSON(w, http.StatusOK, map[string]any{"done": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": q.ID, "text": q.Text})
}

// POST /api/answers {question_id, text, response_time?}
func (rt *Router) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		QuestionID   int64  `json:"question_id"`
		Text         string `json:"text"`
		ResponseTime int    `json:"response_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, services.NewInvalidError("réponse invalide"))
		return
	}
	if rt.store.GetQuestion(req.QuestionID) == nil {
		writeError(w, services.NewNotFoundError("question introuvable"))
		return
	}
	cfg := rt.moderation.snapshot(rt.store, rt.threshold)
	result, err := rt.answers.Submit(services.SubmitRequest{
		QuestionID:   req.QuestionID,
		Text:         req.Text,
		ResponseTime: req.ResponseTime,
		Config:       cfg,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "merged": result.Merged})
}

// POST /api/questions/{id}/skip
func (rt *Router) handleQuestionScoped(w http.ResponseWriter, r *http.Request) {
	id, sub, ok := pathID(r, "/api/questions/")
	if !ok || sub != "skip" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if rt.store.GetQuestion(id) == nil {
		writeError(w, services.NewNotFoundError("question introuvable"))
		return
	}
	rt.store.IncrementSkip(id)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Admin auth ---

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, services.NewInvalidError("mot de passe requis"))
		return
	}
	token, err := rt.auth.Login(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(rt.auth.TokenTTL().Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
}

func (rt *Router) handleCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": middleware.IsAdmin(r.Context())})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: middleware.AdminCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- Admin API ---

func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, rt.questions.Stats(rt.threshold))
}

func (rt *Router) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.questions.Categories())
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, services.NewInvalidError("nom requis"))
			return
		}
		cat, err := rt.questions.CreateCategory(req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cat)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.questions.Questions())
	case http.MethodPost:
		var req struct {
			CategoryID int64  `json:"category_id"`
			Text       string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, services.NewInvalidError("catégorie et texte requis"))
			return
		}
		q, err := rt.questions.CreateQuestion(req.CategoryID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// PUT/DELETE /api/admin/questions/{id}, GET /api/admin/questions/{id}/answers
func (rt *Router) handleQuestionAdminScoped(w http.ResponseWriter, r *http.Request) {
	id, sub, ok := pathID(r, "/api/admin/questions/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch {
	case sub == "answers" && r.Method == http.MethodGet:
		overview, err := rt.questions.AnswersOverview(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	case sub == "" && r.Method == http.MethodPut:
		var req struct {
			CategoryID int64  `json:"category_id"`
			Text       string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, services.NewInvalidError("catégorie et texte requis"))
			return
		}
		if err := rt.questions.UpdateQuestion(id, req.CategoryID, req.Text); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case sub == "" && r.Method == http.MethodDelete:
		if err := rt.questions.DeleteQuestion(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		QuestionID    int64    `json:"question_id"`
		AnswerTexts   []string `json:"answer_texts"`
		CanonicalText string   `json:"canonical_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, services.NewInvalidError("données invalides"))
		return
	}
	changed, err := rt.questions.Merge(req.QuestionID, req.AnswerTexts, req.CanonicalText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "merged": changed})
}

func (rt *Router) handleBannedWords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.store.ListBannedWords())
	case http.MethodPost:
		var req struct {
			Word string `json:"word"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, services.NewInvalidError("mot requis"))
			return
		}
		word := strings.ToLower(strings.TrimSpace(req.Word))
		if word == "" {
			writeError(w, services.NewInvalidError("mot requis"))
			return
		}
		b := rt.store.AddBannedWord(word)
		rt.moderation.invalidate()
		writeJSON(w, http.StatusOK, b)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleBannedWordScoped(w http.ResponseWriter, r *http.Request) {
	id, sub, ok := pathID(r, "/api/admin/banned-words/")
	if !ok || sub != "" || r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if !rt.store.DeleteBannedWord(id) {
		writeError(w, services.NewNotFoundError("mot introuvable"))
		return
	}
	rt.moderation.invalidate()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (rt *Router) handleCorrections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.store.ListCorrections())
	case http.MethodPost:
		var req struct {
			Wrong   string `json:"wrong"`
			Correct string `json:"correct"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, services.NewInvalidError("correction invalide"))
			return
		}
		wrong := strings.ToLower(strings.TrimSpace(req.Wrong))
		correct := strings.ToLower(strings.TrimSpace(req.Correct))
		if wrong == "" || correct == "" {
			writeError(w, services.NewInvalidError("correction invalide"))
			return
		}
		c := rt.store.AddCorrection(wrong, correct)
		rt.moderation.invalidate()
		writeJSON(w, http.StatusOK, c)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleCorrectionScoped(w http.ResponseWriter, r *http.Request) {
	id, sub, ok := pathID(r, "/api/admin/corrections/")
	if !ok || sub != "" || r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if !rt.store.DeleteCorrection(id) {
		writeError(w, services.NewNotFoundError("correction introuvable"))
		return
	}
	rt.moderation.invalidate()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (rt *Router) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"auto_merge": rt.store.GetSetting(SettingAutoMerge) != "0"})
	case http.MethodPut:
		var req struct {
			AutoMerge bool `json:"auto_merge"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, services.NewInvalidError("paramètre invalide"))
			return
		}
		value := "1"
		if !req.AutoMerge {
			value = "0"
		}
		rt.store.SetSetting(SettingAutoMerge, value)
		rt.moderation.invalidate()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "auto_merge": req.AutoMerge})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	b, err := rt.export.BuildCSV()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sondage-export.csv"`)
	_, _ = w.Write(b)
}

func (rt *Router) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rt.store.DeleteAllAnswers()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
