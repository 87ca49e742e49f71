package rules

// Special-label indicators.
var (
	repetitionIndicators = []string{
		"앞선 통화에서도 말씀드렸다시피", "이전에도 말씀드렸는데",
		"또 같은 말씀", "계속 같은 얘기", "반복해서 말씀드리는데",
		"또 물어보는 거예요", "아까도 말했는데",
	}

	// A single strong demand is enough to raise the label.
	strongDemandIndicators = []string{
		"FBI", "경찰", "법원", "검찰", "고소", "고발",
		"불가능한데", "권한 밖", "할 수 없는데", "안 된다고",
		"특별히", "예외로", "지금 당장",
	}

	// Weak demands need at least two co-occurring hits.
	weakDemandIndicators = []string{
		"공짜로", "무료로", "할인", "보상", "배상",
		"책임져", "해결 못하면",
	}

	irrelevanceIndicators = []string{
		"독도에 보내달라", "돈이 없는데", "상관없는 얘기",
		"이건 왜 물어보는 거예요", "맥락 없음",
	}
)

// Normal-label keywords.
var (
	requestKeywords = []string{
		"지금 당장", "바로", "즉시", "당장", "지금", "빠르게 해줘", "급하게",
		"해결해줘", "처리해줘", "부탁드려요", "요청드려요",
		"도와주세요", "해주세요", "부탁합니다",
	}

	complaintKeywords = []string{
		"불만", "불편", "문제", "이상하네요", "이상한데",
		"안 되는데", "안 되네요", "제대로 안 되는데",
		"왜 이래요", "왜 이러세요", "불만이 있어요",
		"항의", "민원", "불만사항",
	}

	clarificationKeywords = []string{
		"무슨 뜻이에요", "무슨 말씀이에요", "뭔 말이에요",
		"설명해주세요", "이해가 안 돼요", "뭐라는 거예요",
		"다시 말씀해주세요", "다시 설명해주세요",
		"잘 모르겠어요", "잘 모르겠는데",
	}

	confirmationKeywords = []string{
		"맞나요", "맞죠", "맞나", "맞는지",
		"확인해주세요", "확인 부탁드려요",
		"이거 맞나요", "제대로 된 건가요",
		"맞는 건가요", "맞는지 확인",
	}

	closingKeywords = []string{
		"감사합니다", "고맙습니다", "수고하셨습니다",
		"끝내주세요", "끝내고 싶어요", "종료하고 싶어요",
		"그럼 이만", "그럼 이 정도로", "끝내면 될까요",
		"다음에 다시", "나중에 다시",
	}

	inquiryKeywords = []string{
		"어떻게", "언제", "어디서", "뭐예요", "뭔가요",
		"물어보고 싶어요", "궁금한데", "알고 싶어요",
		"문의", "질문", "궁금해요",
	}
)
