package database

import (
	"fmt"
	"strings"
)

const taskColumns = `t.id, t.project_id, t.name, t.stage_id, t.sprint_id, t.epic_id, t.previous_sprint_id, t.created_at,
	COALESCE(s.fold, 0), COALESCE(s.is_closed, 0)`

const taskFrom = `tasks t LEFT JOIN stages s ON s.id = t.stage_id`

type TaskQuery struct {
	filters []string
	args    []interface{}
	orderBy string
	limit   int
}

func NewTaskQuery() *TaskQuery {
	return &TaskQuery{orderBy: "t.id ASC"}
}

func (q *TaskQuery) Where(filter string, args ...interface{}) *TaskQuery {
	q.filters = append(q.filters, filter)
	q.args = append(q.args, args...)
	return q
}

func (q *TaskQuery) WhereProject(projectID int64) *TaskQuery {
	return q.Where("t.project_id = ?", projectID)
}

func (q *TaskQuery) WhereBacklog() *TaskQuery {
	return q.Where("t.sprint_id IS NULL")
}

func (q *TaskQuery) WhereSprint(sprintID int64) *TaskQuery {
	return q.Where("t.sprint_id = ?", sprintID)
}

func (q *TaskQuery) WhereEpic(epicID int64) *TaskQuery {
	return q.Where("t.epic_id = ?", epicID)
}

func (q *TaskQuery) WhereIDs(ids []int64) *TaskQuery {
	if len(ids) == 0 {
		return q.Where("0 = 1")
	}
	return q.Where(fmt.Sprintf("t.id IN (%s)", placeholders(len(ids))), int64Args(ids)...)
}

func (q *TaskQuery) OrderBy(orderBy string) *TaskQuery {
	q.orderBy = orderBy
	return q
}

func (q *TaskQuery) Limit(limit int) *TaskQuery {
	q.limit = limit
	return q
}

func (q *TaskQuery) Build() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s", taskColumns, taskFrom)
	if len(q.filters) > 0 {
		query += " WHERE " + strings.Join(q.filters, " AND ")
	}
	if q.orderBy != "" {
		query += " ORDER BY " + q.orderBy
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return query, q.args
}
