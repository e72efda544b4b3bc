package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"resume-ranker/internal/delivery/http/middleware"
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/delivery/http/viewmodel"
	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	newJobPath     = "/recruiter/jobs/new"
	jobsPath       = "/recruiter/jobs"
	candidatesPath = "/recruiter/candidates"
	rankPath       = "/recruiter/rank"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type RecruiterHandler struct {
	recruiterUC domain.RecruiterUsecase
	log         *zap.Logger
}

func NewRecruiterHandler(group *gin.RouterGroup, recruiterUC domain.RecruiterUsecase, log *zap.Logger) {
	handler := &RecruiterHandler{
		recruiterUC: recruiterUC,
		log:         log,
	}

	group.GET("/jobs/new", handler.JobForm)
	group.POST("/jobs/new", handler.CreateJob)
	group.GET("/jobs", handler.LookupJob)
	group.GET("/candidates", handler.SearchCandidates)
	group.GET("/rank", handler.RankCandidates)
	group.GET("/rank/export", handler.ExportRanking)
}

func (h *RecruiterHandler) JobForm(c *gin.Context) {
	render(c, "job_new.html", &viewmodel.JobFormPage{
		Layout: newLayout(c, "Create Job", newJobPath, middleware.CurrentSession(c)),
	})
}

func (h *RecruiterHandler) CreateJob(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var input domain.JobInput
	if err := c.ShouldBind(&input); err != nil {
		page := &viewmodel.JobFormPage{Layout: newLayout(c, "Create Job", newJobPath, sess), Input: input}
		page.Alert(session.FlashWarning, "Required Experience (years): Must be a whole number")
		render(c, "job_new.html", page)
		return
	}

	job, err := h.recruiterUC.CreateJob(c.Request.Context(), sess, input)
	if err != nil {
		page := &viewmodel.JobFormPage{Layout: newLayout(c, "Create Job", newJobPath, sess), Input: input}
		if isInputError(err) {
			page.Alert(session.FlashWarning, userMessage(err))
		} else {
			h.log.Error("Failed to create job", zap.String("title", input.Title), zap.Error(err))
			page.Alert(session.FlashError, "Failed to create job: "+userMessage(err))
		}
		render(c, "job_new.html", page)
		return
	}

	h.log.Info("Job created", zap.String("job_id", job.ID.String()), zap.String("title", job.Title))
	session.AddFlash(c, session.FlashSuccess, "Job posted successfully!")
	redirect(c, newJobPath)
}

func (h *RecruiterHandler) LookupJob(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	jobID, submitted := c.GetQuery("job_id")
	page := &viewmodel.JobLookupPage{
		Layout: newLayout(c, "Job Management", jobsPath, sess),
		JobID:  jobID,
	}
	if !submitted {
		render(c, "job_lookup.html", page)
		return
	}

	job, err := h.recruiterUC.GetJob(c.Request.Context(), sess, jobID)
	switch {
	case err == nil:
		page.Job = job
		page.Alert(session.FlashSuccess, "Job found")
	case isInputError(err):
		page.Alert(session.FlashWarning, userMessage(err))
	default:
		h.log.Error("Job lookup failed", zap.String("job_id", jobID), zap.Error(err))
		page.Alert(session.FlashWarning, "Job not created yet")
	}
	render(c, "job_lookup.html", page)
}

func (h *RecruiterHandler) SearchCandidates(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	page := &viewmodel.SearchPage{Layout: newLayout(c, "Search Candidates", candidatesPath, sess)}

	query := c.Request.URL.Query()
	if !query.Has("skills") && !query.Has("experience") && !query.Has("location") {
		render(c, "candidates.html", page)
		return
	}

	params, err := searchParams(query)
	page.Params = params
	if err != nil {
		page.Alert(session.FlashWarning, err.Error())
		render(c, "candidates.html", page)
		return
	}
	page.Searched = true

	result, err := h.recruiterUC.SearchCandidates(c.Request.Context(), sess, params)
	if err != nil && result == nil {
		page.Alert(session.FlashWarning, userMessage(err))
		render(c, "candidates.html", page)
		return
	}

	switch result.Outcome {
	case domain.SearchFound:
		page.Candidates = result.Candidates
		page.Alert(session.FlashSuccess, fmt.Sprintf("Found %d candidates!", len(result.Candidates)))
	case domain.SearchRejected:
		h.log.Warn("Search rejected", zap.String("reason", result.Reason), zap.Error(err))
		page.Alert(session.FlashWarning, "At least one of the fields is required")
	case domain.SearchFailed:
		h.log.Error("Search failed", zap.Error(err))
		page.Alert(session.FlashError, "Search failed: "+userMessage(err))
	default:
		h.log.Error("Unexpected search response", zap.Error(err))
		page.Alert(session.FlashError, "Unexpected response format from search")
	}
	render(c, "candidates.html", page)
}

func (h *RecruiterHandler) RankCandidates(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	page := &viewmodel.RankPage{
		Layout:   newLayout(c, "Rank Candidates", rankPath, sess),
		MinScore: domain.DefaultRankMinScore,
		Limit:    domain.DefaultRankLimit,
	}

	query := c.Request.URL.Query()
	if !query.Has("job_id") {
		render(c, "rank.html", page)
		return
	}

	params, err := rankParams(query)
	page.JobID = params.JobID
	if params.MinScore != nil {
		page.MinScore = *params.MinScore
	}
	if params.Limit != nil {
		page.Limit = *params.Limit
	}
	if err != nil {
		page.Alert(session.FlashWarning, err.Error())
		render(c, "rank.html", page)
		return
	}

	candidates, err := h.recruiterUC.RankCandidates(c.Request.Context(), sess, params)
	switch {
	case isInputError(err):
		page.Alert(session.FlashWarning, userMessage(err))
	case err != nil:
		h.log.Error("Failed to rank candidates", zap.String("job_id", params.JobID), zap.Error(err))
		page.Alert(session.FlashError, "Failed to rank candidates: "+userMessage(err))
	case len(candidates) == 0:
		page.Ranked = true
		page.Alert(session.FlashInfo, "No candidates ranked for this job.")
	default:
		page.Ranked = true
		page.Candidates = candidates
		page.ExportURL = exportURL(page)
		page.Alert(session.FlashSuccess, fmt.Sprintf("Found %d ranked candidates!", len(candidates)))
	}
	render(c, "rank.html", page)
}

// ExportRanking downloads the ranking for the same filters as an XLSX
// workbook. Failures go back to the ranking page.
func (h *RecruiterHandler) ExportRanking(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	query := c.Request.URL.Query()

	params, err := rankParams(query)
	if err != nil {
		session.AddFlash(c, session.FlashWarning, err.Error())
		redirectWithQuery(c, rankPath, query)
		return
	}

	data, filename, err := h.recruiterUC.ExportRanking(c.Request.Context(), sess, params)
	if err != nil {
		h.log.Error("Ranking export failed", zap.String("job_id", params.JobID), zap.Error(err))
		if isInputError(err) {
			session.AddFlash(c, session.FlashWarning, userMessage(err))
		} else {
			session.AddFlash(c, session.FlashError, "Failed to rank candidates: "+userMessage(err))
		}
		redirectWithQuery(c, rankPath, query)
		return
	}

	h.log.Info("Ranking exported", zap.String("job_id", params.JobID), zap.String("filename", filename))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func searchParams(q url.Values) (domain.SearchParams, error) {
	params := domain.SearchParams{
		Skills:   q.Get("skills"),
		Location: q.Get("location"),
	}
	if raw := strings.TrimSpace(q.Get("experience")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperror.BadRequest("Minimum Experience (years): Must be a whole number")
		}
		params.Experience = n
	}
	return params, nil
}

// rankParams reads the ranking filters. Empty numbers stay nil so the
// defaults apply.
func rankParams(q url.Values) (domain.RankParams, error) {
	params := domain.RankParams{JobID: q.Get("job_id")}
	if raw := strings.TrimSpace(q.Get("min_score")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, apperror.BadRequest("Minimum Score: Must be a number")
		}
		params.MinScore = &v
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperror.BadRequest("Limit: Must be a whole number")
		}
		params.Limit = &n
	}
	return params, nil
}

func exportURL(page *viewmodel.RankPage) string {
	q := url.Values{}
	q.Set("job_id", page.JobID)
	q.Set("min_score", strconv.FormatFloat(page.MinScore, 'f', -1, 64))
	q.Set("limit", strconv.Itoa(page.Limit))
	return rankPath + "/export?" + q.Encode()
}
