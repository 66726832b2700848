package board

import (
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	boardIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateBoardFunc = CreateBoard
	DetailBoardFunc = DetailBoard
	QueryBoardsFunc = QueryBoards
	UpdateBoardFunc = UpdateBoard
	DeleteBoardFunc = DeleteBoard
)

// CreateBoard requires membership of the target organization; the creator
// holds implicit admin on the board from then on.
func CreateBoard(c *domain.BoardCreating, s *session.Session) (*domain.Board, error) {
	oa, err := access.CheckOrgAccessFunc(c.OrgID, authority.OrgRoleMember, s)
	if err != nil {
		return nil, err
	}
	if !oa.HasAccess {
		return nil, bizerror.ErrForbidden
	}

	b := domain.Board{ID: idgen.NextID(boardIdWorker), OrgID: c.OrgID, Name: c.Name,
		CreateTime: time.Now(), Creator: s.Identity.ID}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// DetailBoard returns the board with the caller's effective permission.
// An absent board and a denied board are indistinguishable here.
func DetailBoard(id types.ID, s *session.Session) (*BoardDetail, error) {
	decision, err := access.CheckBoardAccessFunc(id, authority.LevelRead, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	b := decision.Resource.(domain.Board)
	return &BoardDetail{Board: b, Permission: decision.Permission}, nil
}

type BoardDetail struct {
	domain.Board

	Permission authority.PermissionLevel `json:"permission"`
}

func QueryBoards(q *domain.BoardQuery, s *session.Session) (*[]domain.Board, error) {
	ids, err := access.BoardAccess.AccessibleResourceIDs(s)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &[]domain.Board{}, nil
	}

	var boards []domain.Board
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Board{}).
		Where("id IN (?) AND org_id = ?", ids, q.OrgID).Find(&boards).Error; err != nil {
		return nil, err
	}
	return &boards, nil
}

func UpdateBoard(id types.ID, d *domain.BoardUpdating, s *session.Session) error {
	decision, err := access.CheckBoardAccessFunc(id, authority.LevelWrite, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Board{ID: id}).
		Where(domain.Board{ID: id}).Update(domain.Board{Name: d.Name}).Error
}

// DeleteBoard removes the board with its sprints, grants, documents and file
// records in one transaction.
func DeleteBoard(id types.ID, s *session.Session) error {
	decision, err := access.CheckBoardAccessFunc(id, authority.LevelAdmin, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&domain.Sprint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", domain.ResourceTypeBoard, id).
			Delete(&domain.GroupGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", domain.ResourceTypeBoard, id).
			Delete(&domain.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", domain.ResourceTypeBoard, id).
			Delete(&domain.FileRecord{}).Error; err != nil {
			return err
		}
		return tx.Where(&domain.Board{ID: id}).Delete(&domain.Board{}).Error
	})
}
