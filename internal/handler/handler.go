package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recordbook/internal/auth"
	"recordbook/internal/metrics"
	"recordbook/internal/model"
	"recordbook/internal/store"
	"recordbook/internal/student"
)

// AccountStore looks up the current account behind /api/me.
type AccountStore interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	auth     *auth.Service
	students *student.Service
	accounts AccountStore
}

// New creates a handler.
func New(authSvc *auth.Service, students *student.Service, accounts AccountStore) *Handler {
	return &Handler{auth: authSvc, students: students, accounts: accounts}
}

// ---------- Auth ----------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			metrics.ObserveLogin("denied")
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		case errors.Is(err, auth.ErrAccountMisconfigured):
			metrics.ObserveLogin("error")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Account configuration error. Please contact admin."})
		case errors.Is(err, auth.ErrVerification):
			metrics.ObserveLogin("error")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Password verification error"})
		case errors.Is(err, auth.ErrServerMisconfigured):
			metrics.ObserveLogin("error")
			log.Printf("login: signing secret not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server configuration error"})
		default:
			metrics.ObserveLogin("error")
			log.Printf("login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error during login"})
		}
		return
	}

	metrics.ObserveLogin("success")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// Logout acknowledges a logout. Sessions are stateless, so there is nothing
// to invalidate server-side; the token stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// Verify validates a bearer token and echoes its claims.
func (h *Handler) Verify(c *gin.Context) {
	token := auth.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "No token provided"})
		return
	}
	claims, ok := h.auth.VerifyToken(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": claims})
}

type registerRequest struct {
	StaffID  *string `json:"staffId"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

// Register creates a teacher account and returns a session token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.StaffID, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateAccount):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already registered"})
		case errors.Is(err, auth.ErrServerMisconfigured):
			log.Printf("register: signing secret not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server configuration error"})
		default:
			log.Printf("registration failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Registration failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful",
		"token":   res.Token,
		"user": gin.H{
			"id":    res.User.ID,
			"name":  res.User.Name,
			"email": res.User.Email,
			"role":  res.User.Role,
		},
	})
}

// Me returns the authenticated account's current stored state. Unlike
// Verify, which echoes token claims as issued, this is a fresh lookup: a
// role change since issuance shows up here first.
func (h *Handler) Me(c *gin.Context) {
	claimsAny, ok := c.Get(auth.ContextClaimsKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	claims := claimsAny.(auth.Claims)

	u, err := h.accounts.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ---------- Students ----------

// ListStudents returns all students.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// GetStudent returns one student by id.
func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	st, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type studentRequest struct {
	Name           string  `json:"name" binding:"required"`
	RollNumber     string  `json:"rollNumber" binding:"required"`
	RegisterNumber *string `json:"registerNumber"`
	AdmissionYear  *string `json:"admissionYear"`
	CourseType     *string `json:"courseType"`
	Course         *string `json:"course"`
	Branch         *string `json:"branch"`
	AcademicYear   *string `json:"academicYear"`
	Verification   *string `json:"verification"`
	Class          *string `json:"class"`
}

func (r studentRequest) toModel() model.Student {
	return model.Student{
		Name:           r.Name,
		RollNumber:     r.RollNumber,
		RegisterNumber: r.RegisterNumber,
		AdmissionYear:  r.AdmissionYear,
		CourseType:     r.CourseType,
		Course:         r.Course,
		Branch:         r.Branch,
		AcademicYear:   r.AcademicYear,
		Verification:   r.Verification,
		Class:          r.Class,
	}
}

// CreateStudent inserts a student.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and rollNumber are required"})
		return
	}
	st := req.toModel()
	if err := h.students.Create(c.Request.Context(), &st); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// UpdateStudent rewrites a student record.
func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and rollNumber are required"})
		return
	}
	st := req.toModel()
	st.ID = id
	if err := h.students.Update(c.Request.Context(), &st); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteStudent removes a student and, via the schema cascade, its
// attendance rows.
func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------- Attendance ----------

type markRequest struct {
	StudentID int    `json:"studentId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// MarkAttendance records a mark for a student.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId, date and status are required"})
		return
	}
	a, err := h.students.Mark(c.Request.Context(), req.StudentID, req.Date, model.AttendanceStatus(req.Status))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListAttendance returns marks, optionally filtered by studentId and date.
func (h *Handler) ListAttendance(c *gin.Context) {
	studentID := 0
	if v := c.Query("studentId"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid studentId"})
			return
		}
		studentID = parsed
	}
	marks, err := h.students.Attendance(c.Request.Context(), studentID, c.Query("date"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	if marks == nil {
		marks = []model.Attendance{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": marks})
}

// StudentAttendance returns all marks for one student.
func (h *Handler) StudentAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	marks, err := h.students.Attendance(c.Request.Context(), id, "")
	if err != nil {
		h.storeError(c, err)
		return
	}
	if marks == nil {
		marks = []model.Attendance{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": marks})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAttendance changes the status of an existing mark.
func (h *Handler) UpdateAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := h.students.SetStatus(c.Request.Context(), id, model.AttendanceStatus(req.Status)); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteAttendance removes a single mark.
func (h *Handler) DeleteAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.students.Unmark(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------- helpers ----------

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// storeError maps the store and validation taxonomies onto statuses. Raw
// internal detail stays in the log, not the response.
func (h *Handler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, student.ErrInvalidInput),
		errors.Is(err, student.ErrInvalidStatus),
		errors.Is(err, student.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate record"})
	case errors.Is(err, store.ErrForeignKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenced student does not exist"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
