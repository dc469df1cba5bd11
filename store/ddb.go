package store

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/guregu/dynamo/v2"

	"github.com/programme-lv/arena/logger"
)

type recordRow struct {
	RecType string `dynamo:"rec_type,hash"` // partition key
	ID      string `dynamo:"id,range"`      // sort key

	CompetitionID string `dynamo:"competition_id"`
	ParticipantID string `dynamo:"participant_id"`

	Version int64  `dynamo:"version"` // write ordering
	Payload []byte `dynamo:"payload"`

	UpdatedAtRfc3339 string `dynamo:"updated_at_rfc3339_utc"`
}

// DynamoDbRecordStore persists records in a single DynamoDB table
// keyed by record type and id.
type DynamoDbRecordStore struct {
	ddbClient   *dynamodb.Client
	tableName   string
	recordTable *dynamo.Table
}

func NewDynamoDbRecordStore(ddbClient *dynamodb.Client, tableName string) *DynamoDbRecordStore {
	ddb := &DynamoDbRecordStore{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(ddb.ddbClient)
	table := db.Table(ddb.tableName)
	ddb.recordTable = &table

	return ddb
}

// Put writes the record unless the stored version is newer.
func (ddb *DynamoDbRecordStore) Put(ctx context.Context, rec Record) error {
	log := logger.FromContext(ctx)
	log.Debug("storing record", "rec_type", rec.Type, "id", rec.ID, "version", rec.Version)

	row := recordRow{
		RecType:          string(rec.Type),
		ID:               rec.ID,
		CompetitionID:    rec.CompetitionID,
		ParticipantID:    rec.ParticipantID,
		Version:          rec.Version,
		Payload:          rec.Payload,
		UpdatedAtRfc3339: time.Now().UTC().Format(time.RFC3339),
	}

	put := ddb.recordTable.Put(row).If("attribute_not_exists(version) OR version <= ?", rec.Version)
	err := put.Run(ctx)
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return ErrStaleRecordVersion(rec.Type, rec.ID, rec.Version)
		}
		log.Debug("failed to store record", "rec_type", rec.Type, "id", rec.ID, "error", err)
		return err
	}
	return nil
}

func (ddb *DynamoDbRecordStore) Get(ctx context.Context, recType RecType, id string) (Record, error) {
	row := new(recordRow)

	err := ddb.recordTable.Get("rec_type", string(recType)).Range("id", dynamo.Equal, id).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return Record{}, ErrRecordNotFound(recType, id)
		}
		return Record{}, err
	}

	return rowToRecord(*row), nil
}

func (ddb *DynamoDbRecordStore) Query(ctx context.Context, recType RecType, filter Filter) ([]Record, error) {
	log := logger.FromContext(ctx)
	log.Debug("querying records", "rec_type", recType,
		"competition_id", filter.CompetitionID, "participant_id", filter.ParticipantID)

	query := ddb.recordTable.Get("rec_type", string(recType))
	if filter.CompetitionID != "" {
		query = query.Filter("competition_id = ?", filter.CompetitionID)
	}
	if filter.ParticipantID != "" {
		query = query.Filter("participant_id = ?", filter.ParticipantID)
	}

	var rows []recordRow
	err := query.All(ctx, &rows)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToRecord(row))
	}
	return records, nil
}

func rowToRecord(row recordRow) Record {
	return Record{
		Type:          RecType(row.RecType),
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		ParticipantID: row.ParticipantID,
		Version:       row.Version,
		Payload:       row.Payload,
	}
}
