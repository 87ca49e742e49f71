package profanity

// Lexicon data for the severity levels. False-positive lists are removed
// from the level-normalized text before the pattern lists are matched.

var generalFalsePositives = []string{
	"ㅗ먹어", "오ㅗ", "해ㅗ", "호ㅗ", "로ㅗ", "옹ㅗ", "롤ㅗ", "요ㅗ",
	"우ㅗ", "하ㅗ", "8분", "8시", "8시발", "발닦", "다시방", "시발음",
	"시발택시", "시발자동차", "정치발", "시발점", "시발유", "시발역", "아저씨바", "아저씨발",
	"오리발", "발끝", "다시바", "다시팔", "발사", "무시발언", "일시불", "우리",
	"혹시", "아저씨", "바로", "저거시", "피시방", "피씨방", "방장", "엠씨방",
	"빨리", "벌금", "시방향", "불법", "발표", "방송", "역시", "있지",
	"없지", "하지", "알았지", "몰랐지", "근데", "새로", "세끼먹", "고양이새끼",
	"호랑이새끼", "키보드", "새끼손", "0개", "1개", "2개", "3개", "4개",
	"5개", "6개", "7개", "8개", "9개", "1년", "2년", "3년",
	"4년", "5년", "6년", "7년", "8년", "9년", "재밌게놈", "년생",
	"무지개색", "떠돌이개", "에게", "넘는", "소개", "생긴게", "날개같다",
}

var minorFalsePositives = []string{
	"거미", "친구", "개미", "이미친", "미친증", "동그라미", "뒤져봐야", "뒤질뻔",
	"뒤져보다", "뒤져보는", "뒤져보고", "뒤져간다", "뒤져서",
}

var sexualFalsePositives = []string{
	"보지도못", "보지도않", "인가보지", "면접보지", "영화보지", "애니보지", "만화보지", "사진보지",
	"보지마", "보지말", "안보지만", "정보", "지팡이", "행보", "바보지", "물어보지",
	"언제자지", "잠자지", "자지말자고", "지급", "남자지", "여자지", "감자지", "개발자",
	"관리자", "약탈자", "혼자", "자지원", "사용자", "경력자", "지식", "자지마",
	"야스오", "크시야", "카구야", "스파이", "말이야", "스티브", "스쿼드",
}

var belittleFalsePositives = []string{
	"려운지", "무서운지", "라운지", "운지법", "싸운지", "운지버섯", "운지린다", "깔보다",
	"1년", "2년", "3년", "4년", "5년", "6년", "7년", "8년",
	"9년", "0년",
}

var raceFalsePositives = []string{
	"흑형님",
}

var parentFalsePositives = []string{
	"ㄴㄴ", "미국", "엄창못",
}

var politicsFalsePositives = []string{
	"카카오톡", "카톡", "카페", "하다가", "먹다가", "카와이", "카츠", "카레",
	"니가", "내가", "너가", "우리가", "너희가", "카카오", "카드",
}

var generalPatterns = []string{
	"ㅗ", "씨8", "18아", "18놈", "tㅂ", "t발", "ㅆㅍ", "sibal",
	"sival", "sibar", "sibak", "sipal", "tlbal", "tlval", "tlbar", "tlbak",
	"tlpal", "tlqk", "시발", "시val", "시bar", "시bak", "시pal", "시qk",
	"si바", "si발", "si불", "si빨", "si팔", "tl바", "tl발", "tl불",
	"tl빨", "tl팔", "siba", "tlba", "siva", "tlva", "tlqkf", "10발놈",
	"10발년", "tlqkd", "si8", "10r놈", "시8", "십8", "s1bal", "sib알",
	"씨x", "siㅂ", "丨발", "丨벌", "丨바", "ㅅ1", "시ㅣ", "씨ㅣ",
	"8시발", "ㅆ발", "ㅅ발", "ㅅㅂ", "ㅆㅂ", "ㅆ바", "ㅅ바", "시ㅂㅏ",
	"ㅅㅂㅏ", "시ㅏㄹ", "씨ㅏㄹ", "ㅅ불", "ㅆ불", "ㅅ쁠", "ㅆ뿔", "ㅆㅣ발",
	"ㅅㅟ발", "ㅅㅣㅂㅏ", "ㅣ바알", "ㅅ벌", "ㅆ삐라", "씨ㅃ", "^^/발", "시봘",
	"씨봘", "씨바", "시바", "샤발", "씌발", "씹발", "시벌", "시팔",
	"싯팔", "씨빨", "씨랼", "씨파", "띠발", "띡발", "띸발", "싸발",
	"십발", "슈발", "야발", "씨불", "씨랄", "쉬발", "쓰발", "쓔발",
	"쌰발", "쒸발", "씨팔", "wlfkf", "g랄", "g럴", "g롤", "g뢀",
	"giral", "zi랄", "ji랄", "ㅈㄹ", "지ㄹ", "ㅈ랄", "ㅈ라", "지랄",
	"찌랄", "지럴", "지롤", "랄지", "쥐랄", "쮜랄", "지뢀", "띄랄",
	"ㅄ", "ㅂㅅ", "병ㅅ", "ㅂ신", "ㅕㅇ신", "ㅂㅇ신", "뷰신", "병신",
	"병딱", "벼신", "붱신", "뼝신", "뿽신", "삥신", "병시니", "병형신",
	"뵹신", "병긴", "비응신", "염병", "엠병", "옘병", "얨병", "옘뼝",
	"꺼져", "엿같", "엿가튼", "엿먹어", "뭣같은", "rotorl", "rotprl", "sib새",
	"ah끼", "sㅐ끼", "x끼", "ㅅㄲ", "ㅅ끼", "ㅆ끼", "색ㄲㅣ", "ㅆㅐㄲㅑ",
	"ㅆㅐㄲㅣ", "새끼", "쉐리", "쌔끼", "썌끼", "쎼끼", "쌬끼", "샠끼",
	"세끼", "샊", "쌖", "섺", "쎆", "십새", "새키", "씹색",
	"새까", "새꺄", "샛끼", "새뀌", "새끠", "새캬", "색꺄", "색끼",
	"섹히", "셁기", "셁끼", "셐기", "셰끼", "셰리", "쉐꺄", "십색꺄",
	"십떼끼", "십데꺄", "십때끼", "십새꺄", "십새캬", "쉑히", "씹새기", "고아새기",
	"샠기", "애새기", "이새기", "느그새기", "장애새기", "w같은", "ㅈ같", "ㅈ망",
	"ㅈ까", "ㅈ경", "ㅈ가튼", "좆", "촟", "조까", "좈", "쫒",
	"졷", "좃", "줮", "좋같", "좃같", "좃물", "좃밥", "줫",
	"좋밥", "좋물", "좇", "썅", "씨앙", "씨양", "샤앙", "쌰앙",
	"뻑유", "뻐킹", "뻐큐", "빡큐", "뿩큐", "뻑큐", "빡유", "뻒큐",
	"닥쳐", "닭쳐", "닥치라", "아가리해", "dog새", "개ㅐ색", "개같", "개가튼",
	"개쉑", "개스키", "개세끼", "개색히", "개가뇬", "개새기", "개쌔기", "개쌔끼",
	"개소리", "개년", "개드립", "개돼지", "개씹창", "개간나", "개스끼", "개섹기",
	"개자식", "개때꺄", "개때끼", "개발남아", "개샛끼", "개가든", "개가뜬", "개가턴",
	"개가툰", "개갇은", "개갈보", "개걸레", "개너마", "개너므", "개넌", "개넘",
	"개녀나", "개노마", "개노무새끼", "개논", "개놈", "개뇨나", "개뇬", "개뇸",
	"개뇽", "개눔", "개느마", "개늠", "개랙기", "개련", "개발남아", "개발뇬",
	"개색", "개색기", "개색끼", "개샛키", "개샛킹", "개샛히", "개샜끼", "개생키",
	"개샠", "개샤끼", "개샤킥", "개지랄", "개지럴", "개창년", "개허러", "개허벌년",
	"개호러", "개호로", "개후랄", "개후레", "개후로", "개후장", "게가튼", "게같은",
	"게년", "게놈", "게새끼", "게색", "게색기", "게색끼",
}

var minorPatterns = []string{
	"ㅁㅊ", "ㅁ친", "ㅁ쳤", "aㅣ친", "me친", "미ㅊ", "di친", "미친놈",
	"미친새끼", "꼽냐", "꼽니", "꼽나", "뒤져", "뒈져", "뒈진", "뒈질",
	"디져라", "디진다", "디질래", "뒤질",
}

var sexualPatterns = []string{
	"ⓑⓞⓩⓘ", "bozi", "보ㅈㅣ", "보지", "버지물", "버짓물", "보짓", "개보즤",
	"개보지", "ja지", "ㅈㅈ빨", "자ㅈ", "ㅈ지빨", "자지", "자짓", "잦이",
	"쟈지", "sex", "s스", "x스", "se스", "ㅅㅔㅅㄱ", "이=스", "섹ㅅ",
	"세ㄱㅅ", "섹스", "섻", "쉑스", "섿스", "꼬3", "꼬툭튀", "꼬톡튀",
	"불알", "부랄", "뽕알", "뿅알", "뿌랄", "뿔알", "개부달", "개부랄",
	"오나홍", "오나홀", "ㅇㄴ홀", "텐가", "바이브레이터", "씹하다", "매춘부", "성노예",
	"딸딸이", "질싸", "자위남", "자위녀", "폰섹", "포르노", "폰세엑", "폰쉑",
	"폰쎅", "g스팟", "지스팟", "크리토리스", "클리토리스", "페니스", "애널", "젖까",
	"젖가튼", "ja위", "자위", "고자새끼", "고츄", "꺼추", "꼬추",
}

var belittlePatterns = []string{
	"10련", "따까리", "장애년", "찐따년", "싸가지", "창년", "썅년", "버러지",
	"고아년", "개간년", "창녀", "머저리", "씹쓰래기", "씹쓰레기", "씹장생", "씹자식",
	"운지", "급식충", "틀딱충", "한남충", "정신병자", "중생아", "돌팔이", "김치녀",
	"폰팔이", "틀딱년", "같은년", "개돼중", "빡대가리", "더러운년", "돌아이", "또라이",
	"장애려", "샹놈", "김치남", "김치녀",
}

var racePatterns = []string{
	"깜둥이", "흑형", "조센진", "짱개", "짱깨", "짱께", "짱게", "쪽바리",
	"쪽파리", "빨갱이", "니그로", "코쟁이", "칭총", "칭챙총", "섬숭이", "왜놈",
	"짱꼴라", "섬짱깨",
}

var parentPatterns = []string{
	"ㄴ1ㄱ", "ㄴ1ㅁ", "느금ㅁ", "ㄴㄱ마", "ㄴㄱ빠", "ㄴ금빠", "ㅇH미", "ㄴ1에미",
	"늬애미", "ㄴㄱㅁ", "ㄴ금마", "늬금마", "느금마", "느그엄마", "늑엄마", "늑금마",
	"느그애미", "넉엄마", "느그부모", "느그애비", "느금빠", "느그메", "느그빠", "니미씨",
	"니미씹", "느그마", "니엄마", "엄창", "엠창", "니미럴", "누굼마", "느금",
}

var politicsPatterns = []string{
	"노시개", "노알라", "뇌사모", "뇌물현", "응디시티", "귀걸이아빠", "달창", "대깨문",
	"문재앙", "문죄앙", "문죄인", "문크예거", "훠훠훠", "문빠", "근혜어", "길라임",
	"나대블츠", "닭근혜", "댓통령", "레이디가카", "바쁜벌꿀", "가카", "이명박근혜",
}

var specialPatterns = []string{
	"🖕🏻", "👌🏻👈🏻", "👉🏻👌🏻", "🤏🏻", "🖕", "🖕🏼", "🖕🏽", "🖕🏾",
	"🖕🏿",
}
