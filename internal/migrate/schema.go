package migrate

import (
	"context"
	"fmt"

	"org-directory/internal/logger"
	"org-directory/internal/store"
)

// EnsureSchema：首次运行自动创建表与索引
// 约束：全部语句使用 IF NOT EXISTS，可重复执行；两种方言仅主键列类型不同。
func EnsureSchema(ctx context.Context, e store.Execer) error {
	pk := "INTEGER PRIMARY KEY"
	if e.Dialect() == store.Postgres {
		pk = "BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS addresses (
            id ` + pk + `,
            country TEXT NOT NULL,
            city TEXT NOT NULL,
            street TEXT NOT NULL,
            house INTEGER NOT NULL CHECK (house > 0),
            building INTEGER CHECK (building IS NULL OR building > 0),
            lat DOUBLE PRECISION CHECK (lat IS NULL OR (lat >= -90 AND lat <= 90)),
            lon DOUBLE PRECISION CHECK (lon IS NULL OR (lon >= -180 AND lon <= 180)),
            CHECK ((lat IS NULL) = (lon IS NULL))
        )`,
		// building 为空时以 0 参与唯一约束，使同一位置至多一条无楼栋号的地址
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_addresses_full
            ON addresses (lower(country), lower(city), lower(street), house, COALESCE(building, 0))`,
		`CREATE INDEX IF NOT EXISTS ix_addresses_coords ON addresses (lat, lon)`,
		`CREATE TABLE IF NOT EXISTS activities (
            id ` + pk + `,
            name TEXT NOT NULL,
            parent_id BIGINT REFERENCES activities(id) ON DELETE CASCADE
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_activities_sibling ON activities (COALESCE(parent_id, 0), name)`,
		`CREATE INDEX IF NOT EXISTS ix_activities_parent ON activities (parent_id)`,
		`CREATE TABLE IF NOT EXISTS organizations (
            id ` + pk + `,
            name TEXT NOT NULL UNIQUE,
            address_id BIGINT NOT NULL REFERENCES addresses(id) ON DELETE RESTRICT
        )`,
		`CREATE INDEX IF NOT EXISTS ix_organizations_address ON organizations (address_id)`,
		`CREATE TABLE IF NOT EXISTS organization_phones (
            id ` + pk + `,
            organization_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
            phone TEXT NOT NULL,
            UNIQUE (organization_id, phone)
        )`,
		`CREATE TABLE IF NOT EXISTS organization_activities (
            organization_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
            activity_id BIGINT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
            PRIMARY KEY (organization_id, activity_id)
        )`,
		`CREATE INDEX IF NOT EXISTS ix_organization_activities_activity ON organization_activities (activity_id)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := e.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done", "dialect", string(e.Dialect()))
	return nil
}
