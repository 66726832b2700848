package board

import (
	"errors"
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
	sprintIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateSprintFunc   = CreateSprint
	QuerySprintsFunc   = QuerySprints
	ActivateSprintFunc = ActivateSprint
	CompleteSprintFunc = CompleteSprint
	DeleteSprintFunc   = DeleteSprint
)

func CreateSprint(c *domain.SprintCreating, s *session.Session) (*domain.Sprint, error) {
	decision, err := access.CheckBoardAccessFunc(c.BoardID, authority.LevelWrite, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	sprint := domain.Sprint{ID: idgen.NextID(sprintIdWorker), BoardID: c.BoardID, Name: c.Name,
		Status: domain.SprintStatusPlanning, StartTime: c.StartTime, EndTime: c.EndTime,
		CreateTime: time.Now(), Creator: s.Identity.ID}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(sprint).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

func QuerySprints(boardId types.ID, s *session.Session) (*[]domain.Sprint, error) {
	decision, err := access.CheckBoardAccessFunc(boardId, authority.LevelRead, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	var sprints []domain.Sprint
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Sprint{}).
		Where(&domain.Sprint{BoardID: boardId}).Order("create_time ASC").Find(&sprints).Error; err != nil {
		return nil, err
	}
	return &sprints, nil
}

// ActivateSprint demotes any currently active sprint of the board back to
// planning and promotes the target, inside one transaction. Two concurrent
// activations resolve to last-write-wins, never to two active sprints.
func ActivateSprint(id types.ID, s *session.Session) error {
	return transitionSprint(id, s, func(tx *gorm.DB, sprint *domain.Sprint) error {
		if err := tx.Model(&domain.Sprint{}).
			Where("board_id = ? AND status = ? AND id != ?", sprint.BoardID, domain.SprintStatusActive, sprint.ID).
			Update("status", domain.SprintStatusPlanning).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Sprint{}).Where(&domain.Sprint{ID: sprint.ID}).
			Update("status", domain.SprintStatusActive).Error
	})
}

func CompleteSprint(id types.ID, s *session.Session) error {
	return transitionSprint(id, s, func(tx *gorm.DB, sprint *domain.Sprint) error {
		return tx.Model(&domain.Sprint{}).Where(&domain.Sprint{ID: sprint.ID}).
			Update("status", domain.SprintStatusCompleted).Error
	})
}

func DeleteSprint(id types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	sprint := domain.Sprint{}
	if err := db.Where(&domain.Sprint{ID: id}).First(&sprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotFound
		}
		return err
	}

	decision, err := access.CheckBoardAccessFunc(sprint.BoardID, authority.LevelAdmin, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return db.Where(&domain.Sprint{ID: id}).Delete(&domain.Sprint{}).Error
}

func transitionSprint(id types.ID, s *session.Session, apply func(tx *gorm.DB, sprint *domain.Sprint) error) error {
	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		sprint := domain.Sprint{}
		if err := tx.Where(&domain.Sprint{ID: id}).First(&sprint).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}

		decision, err := access.CheckBoardAccessFunc(sprint.BoardID, authority.LevelWrite, s)
		if err != nil {
			return err
		}
		if decision.Denied() {
			return bizerror.ErrForbidden
		}

		return apply(tx, &sprint)
	})
}
