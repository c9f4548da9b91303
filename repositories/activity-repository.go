package repositories

import (
	"time"

	"github.com/gocql/gocql"

	"collabnest/backend/logging"
)

type ActivityType string

const (
	ActivityProjectCreated      ActivityType = "ProjectCreated"
	ActivityProjectApproved     ActivityType = "ProjectApproved"
	ActivityProjectRejected     ActivityType = "ProjectRejected"
	ActivityProjectDeleted      ActivityType = "ProjectDeleted"
	ActivityApplicationCreated  ActivityType = "ApplicationCreated"
	ActivityApplicationDecision ActivityType = "ApplicationDecision"
	ActivityTaskCreated         ActivityType = "TaskCreated"
	ActivityTaskAssigned        ActivityType = "TaskAssigned"
	ActivityTaskUpdated         ActivityType = "TaskUpdated"
	ActivityTaskDeleted         ActivityType = "TaskDeleted"
)

// ActivityRepo je append-only dnevnik dešavanja na projektima u Cassandri.
// Upis je fire-and-forget: greška se loguje i nikad ne stiže do pozivaoca.
type ActivityRepo struct {
	session *gocql.Session
}

// NewActivityRepo se povezuje na Cassandru i priprema keyspace i tabelu.
// Prazan host znači da je dnevnik isključen i Record postaje no-op.
func NewActivityRepo(host string) (*ActivityRepo, error) {
	if host == "" {
		logging.Logger.Info("Event ID: ACTIVITY_LOG_DISABLED, Description: CASS_DB not set, project activity log disabled")
		return &ActivityRepo{}, nil
	}

	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS collabnest
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_KEYSPACE_CREATE_FAILED, Description: Failed to create keyspace: %v", err)
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "collabnest"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(
		`CREATE TABLE IF NOT EXISTS project_activities (
			id UUID,
			project_id TEXT,
			activity_type TEXT,
			details TEXT,
			created_at TIMESTAMP,
			PRIMARY KEY ((project_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_TABLE_CREATE_FAILED, Description: Failed to create project_activities table: %v", err)
		return nil, err
	}

	logging.Logger.Info("Event ID: ACTIVITY_LOG_CONNECTED, Description: Connected to Cassandra project activity log")
	return &ActivityRepo{session: session}, nil
}

// CloseSession zatvara Cassandra sesiju.
func (ar *ActivityRepo) CloseSession() {
	if ar.session != nil {
		ar.session.Close()
	}
}

// Record upisuje jedan događaj u dnevnik projekta.
func (ar *ActivityRepo) Record(projectID string, activityType ActivityType, details string) {
	if ar == nil || ar.session == nil {
		return
	}

	err := ar.session.Query(
		`INSERT INTO project_activities (id, project_id, activity_type, details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		gocql.TimeUUID(), projectID, string(activityType), details, time.Now(),
	).Exec()
	if err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_RECORD_FAILED, Description: Failed to record %s for project %s: %v", activityType, projectID, err)
	}
}

// ListForProject vraća događaje jednog projekta, najnovije prve.
func (ar *ActivityRepo) ListForProject(projectID string, limit int) ([]map[string]interface{}, error) {
	if ar == nil || ar.session == nil {
		return []map[string]interface{}{}, nil
	}

	query := `SELECT id, activity_type, details, created_at
			  FROM project_activities WHERE project_id = ? LIMIT ?`
	iter := ar.session.Query(query, projectID, limit).Iter()

	var activities []map[string]interface{}
	var id gocql.UUID
	var activityType, details string
	var createdAt time.Time
	for iter.Scan(&id, &activityType, &details, &createdAt) {
		activities = append(activities, map[string]interface{}{
			"id":           id.String(),
			"activityType": activityType,
			"details":      details,
			"createdAt":    createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return activities, nil
}
