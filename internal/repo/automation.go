package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

func (c *Client) CreateAutomationLog(ctx context.Context, l *AutomationLog) error {
	if l.ID == uuid.Nil {
		l.ID = newID()
	}
	var details any
	if l.Details != nil {
		b, err := json.Marshal(l.Details)
		if err != nil {
			return fmt.Errorf("encode automation details: %w", err)
		}
		details = string(b)
	}
	ins := builder.Insert(migrate.AutomationLogsTable.Name).
		Set("id", l.ID).
		Set("job_name", l.JobName).
		Set("status", l.Status).
		Set("processed", l.Processed).
		Set("failed", l.Failed).
		Set("details", details).
		Set("error", l.Error).
		Set("started_at", l.StartedAt).
		Set("finished_at", l.FinishedAt)
	if _, err := c.exec(ctx, ins); err != nil {
		return fmt.Errorf("insert automation log: %w", err)
	}
	return nil
}

// LatestAutomationLog returns the most recent run of a job.
func (c *Client) LatestAutomationLog(ctx context.Context, job string) (*AutomationLog, error) {
	sel := selectFrom(migrate.AutomationLogsTable).
		Where(sql.EQ("job_name", job)).
		OrderBy(sql.Desc("started_at"))
	return first[AutomationLog](ctx, c, sel, "automation log")
}
