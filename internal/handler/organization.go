// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/paiban/paiban/internal/repository"
	"github.com/paiban/paiban/pkg/errors"
	"github.com/paiban/paiban/pkg/model"
)

// OrganizationHandler 组织档案处理器：每个组织拥有独立的月度班表，
// 其余所有端点都以 {org_id} 为路径前缀，故组织本身须先能被建立与查询。
type OrganizationHandler struct {
	db   DB
	repo *repository.OrganizationRepository
}

// NewOrganizationHandler 创建组织处理器
func NewOrganizationHandler(db DB) *OrganizationHandler {
	return &OrganizationHandler{db: db, repo: repository.NewOrganizationRepository(db)}
}

// OrganizationCreateRequest 新增组织请求
type OrganizationCreateRequest struct {
	Name     string        `json:"name"`
	Code     string        `json:"code"`
	Settings model.JSONMap `json:"settings,omitempty"`
}

// OrganizationUpdateRequest 更新组织请求
type OrganizationUpdateRequest struct {
	Name     *string       `json:"name,omitempty"`
	Settings model.JSONMap `json:"settings,omitempty"`
}

// List 回传全部组织
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.DefaultListFilter()
	filter.Limit = 200
	orgs, _, err := h.repo.List(r.Context(), filter)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询组织失败"))
		return
	}
	respondJSON(w, http.StatusOK, orgs)
}

// Create 新增组织，code 在全站须唯一
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrganizationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)
	if name == "" || code == "" {
		respondError(w, errors.New(errors.CodeInvalidInput, "name/code 不可为空"))
		return
	}

	existing, err := h.repo.GetByCode(r.Context(), code)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询组织失败"))
		return
	}
	if existing != nil {
		respondError(w, errors.New(errors.CodeAlreadyExists, "code 已存在"))
		return
	}

	settings := req.Settings
	if settings == nil {
		settings = model.JSONMap{}
	}
	org := &model.Organization{Name: name, Code: code, Settings: settings}
	if err := h.repo.Create(r.Context(), org); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "创建组织失败"))
		return
	}

	// 新组织尚无任何班别，立即补齐标准班别，省去第一次排班生成前的等待。
	if err := repository.NewSeedRepository(h.db).EnsureDefaultShiftTypes(r.Context(), org.ID); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "初始化班别失败"))
		return
	}

	respondJSON(w, http.StatusCreated, org)
}

// Get 查询单一组织
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	org, err := h.repo.GetByID(r.Context(), orgID)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询组织失败"))
		return
	}
	if org == nil {
		respondError(w, errors.New(errors.CodeNotFound, "organization not found"))
		return
	}
	respondJSON(w, http.StatusOK, org)
}

// Update 局部更新组织
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	org, err := h.repo.GetByID(r.Context(), orgID)
	if err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "查询组织失败"))
		return
	}
	if org == nil {
		respondError(w, errors.New(errors.CodeNotFound, "organization not found"))
		return
	}

	var req OrganizationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
	}
	if req.Settings != nil {
		org.Settings = req.Settings
	}

	if err := h.repo.Update(r.Context(), org); err != nil {
		respondError(w, asAppError(err, errors.CodeDatabaseError, "更新组织失败"))
		return
	}
	respondJSON(w, http.StatusOK, org)
}

// Delete 软删除组织
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := parseOrgID(r)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	_ = h.repo.Delete(r.Context(), orgID)
	respondJSON(w, http.StatusNoContent, nil)
}
