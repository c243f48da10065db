package store

import (
	"context"
	"fmt"
)

const schema = `
create table if not exists region_statistics (
	id bigserial primary key,
	province text not null,
	municipality text,
	reported_date date not null,
	cumulative_infections bigint not null default 0,
	cumulative_hospitalised bigint not null default 0,
	cumulative_critical bigint not null default 0,
	cumulative_deaths bigint not null default 0,
	cumulative_recovered bigint not null default 0,
	cumulative_hospitalised_nice bigint,
	infections bigint not null default 0,
	hospitalised bigint not null default 0,
	critical bigint not null default 0,
	deaths bigint not null default 0,
	recovered bigint not null default 0,
	prevalence_low bigint,
	prevalence_avg bigint,
	prevalence_up bigint,
	reproduction double precision,
	hospital_intake_proven bigint,
	hospital_intake_suspected bigint
);

create index if not exists region_statistics_region_date_idx
	on region_statistics (province, municipality, reported_date);
create index if not exists region_statistics_date_idx
	on region_statistics (reported_date);

create table if not exists reported_cases (
	id bigserial primary key,
	province text not null,
	reported_date date not null,
	statistics_date date not null
);

create index if not exists reported_cases_statistics_date_idx
	on reported_cases (statistics_date);
`

// Bootstrap creates the schema when missing. Run once at startup.
func (s *store) Bootstrap(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}
