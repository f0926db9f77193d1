package streams

import (
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
)

// fromStreamImage converts a stream record image into the dynamodb SDK's
// attribute values so the shared attributevalue marshaller can decode it.
// The two SDK packages define structurally identical unions but distinct Go
// types, so this walk is unavoidable.
func fromStreamImage(image map[string]streamtypes.AttributeValue) map[string]dbtypes.AttributeValue {
	if image == nil {
		return nil
	}
	out := make(map[string]dbtypes.AttributeValue, len(image))
	for k, v := range image {
		out[k] = fromStreamValue(v)
	}
	return out
}

func fromStreamValue(v streamtypes.AttributeValue) dbtypes.AttributeValue {
	switch av := v.(type) {
	case *streamtypes.AttributeValueMemberS:
		return &dbtypes.AttributeValueMemberS{Value: av.Value}
	case *streamtypes.AttributeValueMemberN:
		return &dbtypes.AttributeValueMemberN{Value: av.Value}
	case *streamtypes.AttributeValueMemberB:
		return &dbtypes.AttributeValueMemberB{Value: av.Value}
	case *streamtypes.AttributeValueMemberBOOL:
		return &dbtypes.AttributeValueMemberBOOL{Value: av.Value}
	case *streamtypes.AttributeValueMemberNULL:
		return &dbtypes.AttributeValueMemberNULL{Value: av.Value}
	case *streamtypes.AttributeValueMemberSS:
		return &dbtypes.AttributeValueMemberSS{Value: av.Value}
	case *streamtypes.AttributeValueMemberNS:
		return &dbtypes.AttributeValueMemberNS{Value: av.Value}
	case *streamtypes.AttributeValueMemberBS:
		return &dbtypes.AttributeValueMemberBS{Value: av.Value}
	case *streamtypes.AttributeValueMemberL:
		list := make([]dbtypes.AttributeValue, len(av.Value))
		for i, item := range av.Value {
			list[i] = fromStreamValue(item)
		}
		return &dbtypes.AttributeValueMemberL{Value: list}
	case *streamtypes.AttributeValueMemberM:
		return &dbtypes.AttributeValueMemberM{Value: fromStreamImage(av.Value)}
	default:
		return &dbtypes.AttributeValueMemberNULL{Value: true}
	}
}
