package repository

import (
	"context"
	"errors"
	"slices"

	"payhub/internal/domain/entities"
	"payhub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName = "payments"
	paymentsSessionIDIndex   = "session_id-index"

	itemKindPayment = "payment"
	itemKindGuard   = "gpid_guard"
	guardIDPrefix   = "gpid#"
)

type paymentRecordItem struct {
	ID               string `dynamodbav:"id"`
	Kind             string `dynamodbav:"kind"`
	GatewayPaymentID string `dynamodbav:"gateway_payment_id"`
	Gateway          string `dynamodbav:"gateway"`
	Amount           int64  `dynamodbav:"amount"`
	Currency         string `dynamodbav:"currency"`
	Status           string `dynamodbav:"status"`
	CustomerEmail    string `dynamodbav:"customer_email,omitempty"`
	OrderID          string `dynamodbav:"order_id,omitempty"`
	SessionID        string `dynamodbav:"session_id"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
}

// gatewayIDGuardItem reserves a gateway payment id and points at the owning record.
type gatewayIDGuardItem struct {
	ID        string `dynamodbav:"id"`
	Kind      string `dynamodbav:"kind"`
	PaymentID string `dynamodbav:"payment_id"`
}

// PaymentRecordDynamoRepository persists PaymentRecord entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: session_id-index (PK: session_id)
//
// Uniqueness of gateway_payment_id is enforced by a guard item (id "gpid#<gatewayPaymentId>")
// written in the same transaction as the record.
type PaymentRecordDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IPaymentRecordRepository = (*PaymentRecordDynamoRepository)(nil)

func NewPaymentRecordDynamoRepository(ddb *dynamodb.Client, tableName string) *PaymentRecordDynamoRepository {
	if tableName == "" {
		tableName = defaultPaymentsTableName
	}
	return &PaymentRecordDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentRecordDynamoRepository) Create(ctx context.Context, p entities.PaymentRecord) (entities.PaymentRecord, error) {
	recordAV, err := attributevalue.MarshalMap(toPaymentRecordItem(p))
	if err != nil {
		return entities.PaymentRecord{}, err
	}
	guardAV, err := attributevalue.MarshalMap(gatewayIDGuardItem{
		ID:        guardIDPrefix + p.GatewayPaymentID,
		Kind:      itemKindGuard,
		PaymentID: p.ID,
	})
	if err != nil {
		return entities.PaymentRecord{}, err
	}

	notExists := aws.String("attribute_not_exists(#id)")
	names := map[string]string{"#id": "id"}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     recordAV,
				ConditionExpression:      notExists,
				ExpressionAttributeNames: names,
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     guardAV,
				ConditionExpression:      notExists,
				ExpressionAttributeNames: names,
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && conditionFailed(tce) {
			return entities.PaymentRecord{}, entities.ErrDuplicateKey
		}
		return entities.PaymentRecord{}, storeError("create", err)
	}
	return p, nil
}

func (r *PaymentRecordDynamoRepository) UpdateStatus(ctx context.Context, gatewayPaymentID string, status entities.PaymentStatus) (entities.StatusUpdateOutcome, error) {
	if err := requireTerminal(status); err != nil {
		return "", err
	}

	paymentID, err := r.resolveGatewayID(ctx, gatewayPaymentID)
	if err != nil {
		return "", err
	}
	if paymentID == "" {
		return entities.StatusUpdateNotFound, nil
	}

	_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: paymentID},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :pending"),
		UpdateExpression:    aws.String("SET #status = :status, #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPending)},
			":status":  &types.AttributeValueMemberS{Value: string(status)},
			":now":     &types.AttributeValueMemberS{Value: formatTime(nowUTC())},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return entities.StatusUpdateApplied, nil
	}

	var cfe *types.ConditionalCheckFailedException
	if !errors.As(err, &cfe) {
		return "", storeError("update status", err)
	}
	if len(cfe.Item) == 0 {
		return entities.StatusUpdateNotFound, nil
	}
	var it paymentRecordItem
	if err := attributevalue.UnmarshalMap(cfe.Item, &it); err != nil {
		return "", err
	}
	return outcomeFor(fromPaymentRecordItem(it), status), nil
}

func (r *PaymentRecordDynamoRepository) GetBySessionID(ctx context.Context, sessionID string) (entities.PaymentRecord, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsSessionIDIndex),
		KeyConditionExpression: aws.String("session_id = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.PaymentRecord{}, storeError("get by session", err)
	}
	if len(out.Items) == 0 {
		return entities.PaymentRecord{}, nil
	}

	var it paymentRecordItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.PaymentRecord{}, err
	}
	return fromPaymentRecordItem(it), nil
}

func (r *PaymentRecordDynamoRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (entities.PaymentRecord, error) {
	paymentID, err := r.resolveGatewayID(ctx, gatewayPaymentID)
	if err != nil || paymentID == "" {
		return entities.PaymentRecord{}, err
	}
	return r.getByID(ctx, paymentID)
}

func (r *PaymentRecordDynamoRepository) ListAll(ctx context.Context) ([]entities.PaymentRecord, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#kind = :kind"),
		ExpressionAttributeNames: map[string]string{"#kind": "kind"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind": &types.AttributeValueMemberS{Value: itemKindPayment},
		},
	})

	items := make([]entities.PaymentRecord, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, storeError("list", err)
		}
		for _, raw := range page.Items {
			var it paymentRecordItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPaymentRecordItem(it))
		}
	}

	slices.SortStableFunc(items, func(a, b entities.PaymentRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return items, nil
}

func (r *PaymentRecordDynamoRepository) resolveGatewayID(ctx context.Context, gatewayPaymentID string) (string, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: guardIDPrefix + gatewayPaymentID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", storeError("get guard", err)
	}
	if len(out.Item) == 0 {
		return "", nil
	}

	var g gatewayIDGuardItem
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return "", err
	}
	return g.PaymentID, nil
}

func (r *PaymentRecordDynamoRepository) getByID(ctx context.Context, id string) (entities.PaymentRecord, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentRecord{}, storeError("get", err)
	}
	if len(out.Item) == 0 {
		return entities.PaymentRecord{}, nil
	}

	var it paymentRecordItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentRecord{}, err
	}
	return fromPaymentRecordItem(it), nil
}

func conditionFailed(tce *types.TransactionCanceledException) bool {
	for _, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func toPaymentRecordItem(p entities.PaymentRecord) paymentRecordItem {
	return paymentRecordItem{
		ID:               p.ID,
		Kind:             itemKindPayment,
		GatewayPaymentID: p.GatewayPaymentID,
		Gateway:          string(p.Gateway),
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           string(p.Status),
		CustomerEmail:    p.CustomerEmail,
		OrderID:          p.OrderID,
		SessionID:        p.SessionID,
		CreatedAt:        formatTime(p.CreatedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
	}
}

func fromPaymentRecordItem(it paymentRecordItem) entities.PaymentRecord {
	return entities.PaymentRecord{
		ID:               it.ID,
		GatewayPaymentID: it.GatewayPaymentID,
		Gateway:          entities.Gateway(it.Gateway),
		Amount:           it.Amount,
		Currency:         it.Currency,
		Status:           entities.PaymentStatus(it.Status),
		CustomerEmail:    it.CustomerEmail,
		OrderID:          it.OrderID,
		SessionID:        it.SessionID,
		CreatedAt:        parseTime(it.CreatedAt),
		UpdatedAt:        parseTime(it.UpdatedAt),
	}
}
