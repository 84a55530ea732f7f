package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/utils"
)

type AuditController struct {
	Store *audit.Store
}

func NewAuditController(store *audit.Store) *AuditController {
	return &AuditController{Store: store}
}

// GetAuditEntries -> query audit trail untuk admin. Filter lewat query
// param: actor, action, atau from+to (RFC3339). Paginasi limit/offset.
func (ac *AuditController) GetAuditEntries(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var entries []models.AuditEntry
	var err error

	switch {
	case c.Query("actor") != "":
		entries, err = ac.Store.FindByActor(c.Query("actor"), limit, offset)
	case c.Query("action") != "":
		entries, err = ac.Store.FindByAction(c.Query("action"), limit, offset)
	case c.Query("from") != "" && c.Query("to") != "":
		var from, to time.Time
		from, err = time.Parse(time.RFC3339, c.Query("from"))
		if err == nil {
			to, err = time.Parse(time.RFC3339, c.Query("to"))
		}
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("from/to must be RFC3339 timestamps"))
			return
		}
		entries, err = ac.Store.FindByTimeRange(from, to, limit, offset)
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("supply actor, action, or from+to query parameters"))
		return
	}

	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Audit entries", entries)
}
