package streams

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/go-push-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strList(ids ...string) *streamtypes.AttributeValueMemberL {
	list := make([]streamtypes.AttributeValue, len(ids))
	for i, id := range ids {
		list[i] = &streamtypes.AttributeValueMemberS{Value: id}
	}
	return &streamtypes.AttributeValueMemberL{Value: list}
}

func TestFromStreamImage_DecodesReservation(t *testing.T) {
	image := map[string]streamtypes.AttributeValue{
		"reservation_id":  &streamtypes.AttributeValueMemberS{Value: "res1"},
		"type":            &streamtypes.AttributeValueMemberS{Value: "match2vs2"},
		"status":          &streamtypes.AttributeValueMemberS{Value: "pending"},
		"user_id":         &streamtypes.AttributeValueMemberS{Value: "u1"},
		"participant_ids": strList("u1", "u2", "u3"),
	}

	var r domain.Reservation
	require.NoError(t, attributevalue.UnmarshalMap(fromStreamImage(image), &r))

	assert.Equal(t, "res1", r.ReservationID)
	assert.Equal(t, domain.MatchType2vs2, r.Type)
	assert.Equal(t, domain.StatusPending, r.Status)
	assert.Equal(t, []string{"u1", "u2", "u3"}, r.ParticipantIDs)
}

func TestFromStreamImage_NestedAndScalars(t *testing.T) {
	image := map[string]streamtypes.AttributeValue{
		"flag":  &streamtypes.AttributeValueMemberBOOL{Value: true},
		"count": &streamtypes.AttributeValueMemberN{Value: "4"},
		"none":  &streamtypes.AttributeValueMemberNULL{Value: true},
		"nested": &streamtypes.AttributeValueMemberM{Value: map[string]streamtypes.AttributeValue{
			"inner": &streamtypes.AttributeValueMemberS{Value: "x"},
		}},
	}

	var out struct {
		Flag   bool `dynamodbav:"flag"`
		Count  int  `dynamodbav:"count"`
		Nested struct {
			Inner string `dynamodbav:"inner"`
		} `dynamodbav:"nested"`
	}
	require.NoError(t, attributevalue.UnmarshalMap(fromStreamImage(image), &out))

	assert.True(t, out.Flag)
	assert.Equal(t, 4, out.Count)
	assert.Equal(t, "x", out.Nested.Inner)
}

func TestFromStreamImage_Nil(t *testing.T) {
	assert.Nil(t, fromStreamImage(nil))
}
