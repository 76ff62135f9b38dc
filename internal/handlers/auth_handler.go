package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAuth "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/auth"
)

type AuthHandler struct {
	register *ucAuth.Register
	login    *ucAuth.Login
	recovery *ucAuth.Recovery
}

func NewAuthHandler(
	register *ucAuth.Register,
	login *ucAuth.Login,
	recovery *ucAuth.Recovery,
) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		recovery: recovery,
	}
}

// --------- Requests ---------

type AddressRequest struct {
	ZipCode  string `json:"zip_code" binding:"max=9"`
	State    string `json:"state" binding:"max=2"`
	City     string `json:"city" binding:"max=100"`
	District string `json:"district" binding:"max=100"`
	Street   string `json:"street" binding:"max=150"`
	Number   string `json:"number" binding:"max=10"`
}

func (a *AddressRequest) input() *ucAuth.AddressInput {
	if a == nil {
		return nil
	}
	return &ucAuth.AddressInput{
		ZipCode:  a.ZipCode,
		State:    a.State,
		City:     a.City,
		District: a.District,
		Street:   a.Street,
		Number:   a.Number,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required"`

	Document  string `json:"document" binding:"max=20"`
	Phone     string `json:"phone" binding:"max=20"`
	Birthdate string `json:"birthdate"`
	Role      string `json:"role" binding:"omitempty,user_role"`
	Specialty string `json:"specialty" binding:"max=100"`

	Address *AddressRequest `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,recovery_code"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Code     string `json:"code" binding:"omitempty,recovery_code"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	session, err := h.register.Execute(c.Request.Context(), ucAuth.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Document:  req.Document,
		Phone:     req.Phone,
		Birthdate: req.Birthdate,
		Role:      req.Role,
		Specialty: req.Specialty,
		Address:   req.Address.input(),
		ActorID:   middleware.UserID(c),
		ActorRole: middleware.Role(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	session, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	if err := h.recovery.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código de recuperação enviado para o e-mail informado.",
	})
}

func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	match, err := h.recovery.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": match})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c)
		return
	}

	if err := h.recovery.ResetPassword(c.Request.Context(), req.Email, req.Password, req.Code); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Senha redefinida com sucesso."})
}
