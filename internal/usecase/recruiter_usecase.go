package usecase

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

type recruiterUsecase struct {
	clients  domain.APIClients
	validate *validator.Validate
}

func NewRecruiterUsecase(clients domain.APIClients, validate *validator.Validate) domain.RecruiterUsecase {
	return &recruiterUsecase{clients: clients, validate: validate}
}

func (u *recruiterUsecase) CreateJob(ctx context.Context, sess *domain.Session, input domain.JobInput) (*domain.Job, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Company = strings.TrimSpace(input.Company)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Company == "" || input.Location == "" || input.Description == "" {
		return nil, apperror.BadRequest("Please fill in all required fields")
	}
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	return u.clients.Job(sess.Token).CreateJob(ctx, input)
}

func (u *recruiterUsecase) GetJob(ctx context.Context, sess *domain.Session, jobID string) (*domain.Job, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperror.BadRequest("Please enter a Job ID")
	}
	return u.clients.Job(sess.Token).GetJob(ctx, jobID)
}

// SearchCandidates forwards the filters as typed. An all-empty filter is
// still sent; the API decides whether to reject it.
func (u *recruiterUsecase) SearchCandidates(ctx context.Context, sess *domain.Session, params domain.SearchParams) (*domain.SearchResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	params.Skills = strings.TrimSpace(params.Skills)
	params.Location = strings.TrimSpace(params.Location)
	if err := validateInput(u.validate, params); err != nil {
		return nil, err
	}
	return u.clients.Job(sess.Token).SearchCandidates(ctx, params)
}

// RankCandidates fills the form defaults (min score 0, limit 10) and returns
// the API ranking untouched.
func (u *recruiterUsecase) RankCandidates(ctx context.Context, sess *domain.Session, params domain.RankParams) ([]domain.Candidate, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	params, err := u.normalizeRank(params)
	if err != nil {
		return nil, err
	}
	return u.clients.Job(sess.Token).RankCandidates(ctx, params)
}

func (u *recruiterUsecase) normalizeRank(params domain.RankParams) (domain.RankParams, error) {
	params.JobID = strings.TrimSpace(params.JobID)
	if params.JobID == "" {
		return params, apperror.BadRequest("Please enter a Job ID")
	}
	if params.MinScore == nil {
		v := domain.DefaultRankMinScore
		params.MinScore = &v
	}
	if params.Limit == nil {
		v := domain.DefaultRankLimit
		params.Limit = &v
	}
	if err := validateInput(u.validate, params); err != nil {
		return params, err
	}
	return params, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportRanking renders the ranking as an XLSX workbook, one row per
// candidate in API order. Returns the file bytes and a download name.
func (u *recruiterUsecase) ExportRanking(ctx context.Context, sess *domain.Session, params domain.RankParams) ([]byte, string, error) {
	candidates, err := u.RankCandidates(ctx, sess, params)
	if err != nil {
		return nil, "", err
	}

	data, err := rankingWorkbook(candidates)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	jobPart := unsafeFileChars.ReplaceAllString(strings.TrimSpace(params.JobID), "_")
	filename := fmt.Sprintf("ranking_%s_%s.xlsx", jobPart, time.Now().Format("20060102_150405"))
	return data, filename, nil
}

func rankingWorkbook(candidates []domain.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Ranking"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// Score columns are the union of every candidate's score names.
	scoreSet := map[string]bool{}
	var scoreNames []string
	for _, c := range candidates {
		for _, name := range c.ScoreNames() {
			if !scoreSet[name] {
				scoreSet[name] = true
				scoreNames = append(scoreNames, name)
			}
		}
	}
	sort.Strings(scoreNames)

	headers := []string{"RANK", "CANDIDATE ID", "NAME", "EMAIL"}
	for _, name := range scoreNames {
		headers = append(headers, strings.ToUpper(strings.ReplaceAll(name, "_", " ")))
	}
	headers = append(headers, "TECHNICAL SKILLS", "SOFT SKILLS")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, c := range candidates {
		row := []any{rowIdx + 1, c.ID.String(), personalInfo(c, "name"), personalInfo(c, "email")}
		for _, name := range scoreNames {
			score, ok := c.MatchScores[name]
			if !ok {
				row = append(row, "")
				continue
			}
			if v, isNum := score.Float(); isNum {
				row = append(row, v)
			} else {
				row = append(row, score.String())
			}
		}
		var technical, soft []string
		if c.ParsedResume != nil {
			technical = c.ParsedResume.Skills.Technical
			soft = c.ParsedResume.Skills.Soft
		}
		row = append(row, strings.Join(technical, ", "), strings.Join(soft, ", "))

		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func personalInfo(c domain.Candidate, key string) string {
	if c.ParsedResume == nil {
		return ""
	}
	return c.ParsedResume.PersonalInfo[key].String()
}
