// BankU Core
// Copyright (c) 2026 The BankU Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of BankU Core.
//
// BankU Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// BankU Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with BankU Core.  If not, see <http://www.gnu.org/licenses/>.

package marketdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

const matchColumns = `
	DBID, NeedDBID, ItemDBID, ConnectorID, Score, Confidence, Reason,
	Status, UserViewed, UserLiked, UserContacted, IsActive, CreatedAt, UpdatedAt`

func scanMatch(row interface{ Scan(...any) error }) (database.Match, error) {
	var m database.Match
	var connector sql.NullInt64
	var liked sql.NullBool
	var created, updated int64
	err := row.Scan(&m.DBID, &m.NeedDBID, &m.ItemDBID, &connector, &m.Score,
		&m.Confidence, &m.Reason, &m.Status, &m.UserViewed, &liked,
		&m.UserContacted, &m.IsActive, &created, &updated)
	if err != nil {
		return m, err
	}
	if connector.Valid {
		m.ConnectorID = &connector.Int64
	}
	if liked.Valid {
		m.UserLiked = &liked.Bool
	}
	m.CreatedAt = time.Unix(created, 0)
	m.UpdatedAt = time.Unix(updated, 0)
	return m, nil
}

func scanMatches(rows *sql.Rows) ([]database.Match, error) {
	var list []database.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return list, fmt.Errorf("failed to scan match row: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating match rows: %w", err)
	}
	return list, nil
}

// sqlReplaceMatchesForNeed stores a freshly generated batch for a need: old
// system matches are deactivated and the new batch inserted, all in one
// transaction so a failure leaves the previous batch intact.
func sqlReplaceMatchesForNeed(
	ctx context.Context, db *sql.DB,
	needID int64, matches []database.Match, when time.Time,
) ([]int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	_, err = tx.ExecContext(ctx, `
		update Matches set IsActive = 0, UpdatedAt = ?
		where NeedDBID = ? and ConnectorID is null and Status = 'pending';
	`, when.Unix(), needID)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate stale matches: %w", err)
	}

	ids := make([]int64, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		res, execErr := tx.ExecContext(ctx, `
			insert into Matches(
				NeedDBID, ItemDBID, ConnectorID, Score, Confidence, Reason,
				Status, UserViewed, UserLiked, UserContacted, IsActive,
				CreatedAt, UpdatedAt
			) values (?, ?, null, ?, ?, ?, 'pending', 0, null, 0, 1, ?, ?)
			on conflict (NeedDBID, ItemDBID) do update set
				Score = excluded.Score,
				Confidence = excluded.Confidence,
				Reason = excluded.Reason,
				IsActive = 1,
				UpdatedAt = excluded.UpdatedAt;
		`, needID, m.ItemDBID, m.Score, m.Confidence, m.Reason,
			when.Unix(), when.Unix())
		if execErr != nil {
			return nil, fmt.Errorf("failed to insert match: %w", execErr)
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			return nil, fmt.Errorf("failed to get match insert id: %w", idErr)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match batch: %w", err)
	}
	return ids, nil
}

// sqlUpsertRecommendation records a connector-made match. An existing row for
// the same need/item pair is taken over rather than duplicated.
func sqlUpsertRecommendation(ctx context.Context, db *sql.DB, m *database.Match) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into Matches(
			NeedDBID, ItemDBID, ConnectorID, Score, Confidence, Reason,
			Status, UserViewed, UserLiked, UserContacted, IsActive,
			CreatedAt, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?, 0, null, 0, 1, ?, ?)
		on conflict (NeedDBID, ItemDBID) do update set
			ConnectorID = excluded.ConnectorID,
			Score = excluded.Score,
			Confidence = excluded.Confidence,
			Reason = excluded.Reason,
			Status = excluded.Status,
			IsActive = 1,
			UpdatedAt = excluded.UpdatedAt;
	`, m.NeedDBID, m.ItemDBID, m.ConnectorID, m.Score, m.Confidence, m.Reason,
		m.Status, m.CreatedAt.Unix(), m.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to upsert recommendation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get recommendation insert id: %w", err)
	}
	return id, nil
}

func sqlGetMatch(ctx context.Context, db *sql.DB, id int64) (database.Match, error) {
	row := db.QueryRowContext(ctx,
		`select `+matchColumns+` from Matches where DBID = ?;`, id)
	m, err := scanMatch(row)
	if err != nil {
		return m, fmt.Errorf("failed to query match: %w", err)
	}
	return m, nil
}

func sqlListMatchesForNeed(ctx context.Context, db *sql.DB, needID int64) ([]database.Match, error) {
	rows, err := db.QueryContext(ctx, `
		select `+matchColumns+` from Matches
		where NeedDBID = ? and IsActive = 1
		order by Score desc;
	`, needID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for need: %w", err)
	}
	defer closeRows(rows)
	return scanMatches(rows)
}

func sqlListRecommendationsByConnector(ctx context.Context, db *sql.DB, connectorID int64) ([]database.Match, error) {
	rows, err := db.QueryContext(ctx, `
		select `+matchColumns+` from Matches
		where ConnectorID = ? and IsActive = 1
		order by UpdatedAt desc;
	`, connectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connector recommendations: %w", err)
	}
	defer closeRows(rows)
	return scanMatches(rows)
}

// sqlListPendingMatches is the connector-facing pending queue: active
// pending matches at or above the score floor, best first.
func sqlListPendingMatches(ctx context.Context, db *sql.DB, minScore float64, limit int) ([]database.Match, error) {
	rows, err := db.QueryContext(ctx, `
		select `+matchColumns+` from Matches
		where Status = 'pending' and IsActive = 1 and Score >= ?
		order by Score desc limit ?;
	`, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending matches: %w", err)
	}
	defer closeRows(rows)
	return scanMatches(rows)
}

// sqlListPendingMatchesForUser returns the pending queue scoped to the
// user's needs, skipping matches the user dismissed via feedback.
func sqlListPendingMatchesForUser(
	ctx context.Context, db *sql.DB,
	userID int64, minScore float64, limit int,
) ([]database.Match, error) {
	rows, err := db.QueryContext(ctx, `
		select `+matchColumnsQualified+` from Matches
		inner join Needs on Needs.DBID = Matches.NeedDBID
		where Needs.UserID = ?
			and Matches.Status = 'pending'
			and Matches.IsActive = 1
			and Matches.Score >= ?
			and not exists (
				select 1 from MatchFeedback
				where MatchFeedback.MatchDBID = Matches.DBID
					and MatchFeedback.UserID = ?
					and MatchFeedback.Type = 'dismissed'
			)
		order by Matches.Score desc limit ?;
	`, userID, minScore, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query user recommendations: %w", err)
	}
	defer closeRows(rows)
	return scanMatches(rows)
}

const matchColumnsQualified = `
	Matches.DBID, Matches.NeedDBID, Matches.ItemDBID, Matches.ConnectorID,
	Matches.Score, Matches.Confidence, Matches.Reason, Matches.Status,
	Matches.UserViewed, Matches.UserLiked, Matches.UserContacted,
	Matches.IsActive, Matches.CreatedAt, Matches.UpdatedAt`

func sqlUpdateMatchStatus(ctx context.Context, db *sql.DB, id int64, status string, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Matches set Status = ?, UpdatedAt = ? where DBID = ?;
	`, status, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	return nil
}

// sqlAssignMatch updates status and takes a connector assignment in one
// statement.
func sqlAssignMatch(ctx context.Context, db *sql.DB, id int64, status string, connectorID int64, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Matches set Status = ?, ConnectorID = ?, UpdatedAt = ? where DBID = ?;
	`, status, connectorID, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to assign match: %w", err)
	}
	return nil
}

func sqlMarkMatchViewed(ctx context.Context, db *sql.DB, id int64, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Matches set UserViewed = 1, UpdatedAt = ? where DBID = ?;
	`, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark match viewed: %w", err)
	}
	return nil
}

func sqlSetMatchLiked(ctx context.Context, db *sql.DB, id int64, liked bool, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Matches set UserLiked = ?, UpdatedAt = ? where DBID = ?;
	`, liked, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to set match liked: %w", err)
	}
	return nil
}

func sqlMarkMatchContacted(ctx context.Context, db *sql.DB, id int64, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Matches set UserContacted = 1, UpdatedAt = ? where DBID = ?;
	`, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark match contacted: %w", err)
	}
	return nil
}

/*
 * Feedback
 */

func sqlAddMatchFeedback(ctx context.Context, db *sql.DB, f *database.MatchFeedback) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into MatchFeedback(MatchDBID, UserID, Type, Rating, Comment, CreatedAt)
		values (?, ?, ?, ?, ?, ?);
	`, f.MatchDBID, f.UserID, f.Type, f.Rating, f.Comment, f.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert match feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get feedback insert id: %w", err)
	}
	return id, nil
}

func sqlListMatchFeedback(ctx context.Context, db *sql.DB, matchID int64) ([]database.MatchFeedback, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, MatchDBID, UserID, Type, Rating, Comment, CreatedAt
		from MatchFeedback where MatchDBID = ? order by DBID asc;
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match feedback: %w", err)
	}
	defer closeRows(rows)

	var list []database.MatchFeedback
	for rows.Next() {
		var f database.MatchFeedback
		var rating sql.NullInt64
		var created int64
		scanErr := rows.Scan(&f.DBID, &f.MatchDBID, &f.UserID, &f.Type, &rating, &f.Comment, &created)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan feedback row: %w", scanErr)
		}
		if rating.Valid {
			r := int(rating.Int64)
			f.Rating = &r
		}
		f.CreatedAt = time.Unix(created, 0)
		list = append(list, f)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return list, nil
}

// sqlMatchingStats gathers the summary counters for the analytics endpoint.
func sqlMatchingStats(ctx context.Context, db *sql.DB) (database.MatchingStats, error) {
	var stats database.MatchingStats

	err := db.QueryRowContext(ctx, `
		select count(*),
			coalesce(avg(Score), 0),
			coalesce(sum(case when Status = 'accepted' then 1 else 0 end), 0)
		from Matches where IsActive = 1;
	`).Scan(&stats.TotalMatches, &stats.AverageScore, &stats.AcceptedMatches)
	if err != nil {
		return stats, fmt.Errorf("failed to query match stats: %w", err)
	}

	err = db.QueryRowContext(ctx, `select count(*) from MatchSessions;`).Scan(&stats.TotalSessions)
	if err != nil {
		return stats, fmt.Errorf("failed to query session count: %w", err)
	}

	err = db.QueryRowContext(ctx, `select count(*) from MatchFeedback;`).Scan(&stats.TotalFeedback)
	if err != nil {
		return stats, fmt.Errorf("failed to query feedback count: %w", err)
	}

	if stats.TotalMatches > 0 {
		stats.AcceptanceRate = float64(stats.AcceptedMatches) / float64(stats.TotalMatches)
	}
	return stats, nil
}

/*
 * Sessions
 */

func sqlAddMatchSession(ctx context.Context, db *sql.DB, s *database.MatchSession) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into MatchSessions(ID, UserID, NeedDBID, SessionType, MatchesGenerated, StartedAt)
		values (?, ?, ?, ?, ?, ?);
	`, s.ID, s.UserID, s.NeedDBID, s.SessionType, s.MatchesGenerated, s.StartedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert match session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session insert id: %w", err)
	}
	return id, nil
}

func sqlEndMatchSession(ctx context.Context, db *sql.DB, sessionID string, generated int, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update MatchSessions set MatchesGenerated = ?, EndedAt = ? where ID = ?;
	`, generated, when.Unix(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end match session: %w", err)
	}
	return nil
}

func sqlGetMatchSession(ctx context.Context, db *sql.DB, sessionID string) (database.MatchSession, error) {
	var s database.MatchSession
	var started int64
	var ended sql.NullInt64
	err := db.QueryRowContext(ctx, `
		select DBID, ID, UserID, NeedDBID, SessionType, MatchesGenerated, StartedAt, EndedAt
		from MatchSessions where ID = ?;
	`, sessionID).Scan(&s.DBID, &s.ID, &s.UserID, &s.NeedDBID, &s.SessionType,
		&s.MatchesGenerated, &started, &ended)
	if err != nil {
		return s, fmt.Errorf("failed to query match session: %w", err)
	}
	s.StartedAt = time.Unix(started, 0)
	if ended.Valid {
		t := time.Unix(ended.Int64, 0)
		s.EndedAt = &t
	}
	return s, nil
}
