package openai

const summarySystemPrompt = "You are an assistant specialized in summarizing work meetings."

const summaryPromptTemplate = `Below is the transcript of a meeting.
Produce a structured summary that includes:

1. An executive summary (three paragraphs at most)
2. The key points discussed
3. The important questions and their answers
4. The objectives identified

Transcript:
%s

Respond in JSON with this structure:
{
  "executive": "...",
  "keyPoints": ["..."],
  "questionsAndAnswers": [{"question": "...", "answer": "..."}],
  "objectives": ["..."]
}`

const analysisSystemPrompt = "You are an assistant specialized in analyzing work meetings."

const analysisPromptTemplate = `Below is the transcript of a meeting.
Produce a structured analysis that includes:

1. The key topics mentioned with their relevance (0-1)
2. The overall sentiment with a score between -1 and 1
3. The questions raised and their answers
4. The objectives identified
5. The tasks mentioned or implied

Transcript:
%s

Respond in JSON with this structure:
{
  "keyTopics": [{"term": "...", "tfidf": 0.8}],
  "sentiment": {"score": 0.5, "comparative": 0.1},
  "questions": [{"text": "...", "answer": "..."}],
  "objectives": [{"text": "..."}],
  "tasks": [{"text": "..."}]
}`

const planSystemPrompt = "You are an assistant specialized in project planning."

const planPromptTemplate = `Below is the transcript of a meeting.
Produce a structured work plan that includes:

1. A plan name and description
2. A start date (today: %s)
3. An end date (end of month: %s)
4. The objectives identified
5. Tasks for each objective with estimated dates

Transcript:
%s

Respond in JSON with this structure:
{
  "id": "plan-1",
  "name": "...",
  "description": "...",
  "startDate": "%s",
  "endDate": "%s",
  "objectives": [{"id": "obj1", "text": "...", "tasks": ["task1"]}],
  "unassignedTasks": [],
  "ganttData": {
    "tasks": [{"id": "task1", "text": "...", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD", "progress": 0, "assignee": "..."}],
    "dependencies": [{"id": "dep1", "source": "task1", "target": "task2", "type": 0}]
  }
}`
