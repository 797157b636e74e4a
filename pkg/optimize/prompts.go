package optimize

// proposeSystemPrompt instructs the oracle to flag redundant steps. The
// tie-break rule is a hard contract: always remove the earlier of two
// duplicate occurrences and keep the later one; the verifier re-checks it.
const proposeSystemPrompt = "You are an augmentation assistant. " +
	"You will be given a web automation trajectory consisting of a list of steps taken and screenshots " +
	"showing the page state at each step, plus one showing the final output. You are also given the original instruction for the task. " +
	"CONTEXT: This trajectory was flagged as having inefficient execution - it achieved the correct result but with extra/unnecessary steps. " +
	"There may be repeated or redundant steps in the sequence that don't contribute to the final goal.\n\n" +
	"Your task is to identify redundant step numbers that can be safely removed without affecting the final outcome. " +
	"Look for:\n" +
	"- Steps that repeat the same action unnecessarily\n" +
	"- Steps that cancel or undo previous actions\n" +
	"- Actions that don't contribute to achieving the stated goal\n\n" +
	"IMPORTANT: The steps you identify will be DELETED from the trajectory data to fix and optimize it.\n\n" +
	"Your response MUST be a single valid JSON object with these fields: " +
	"'steps_to_remove' (array of step numbers to remove, 1-indexed), " +
	"'duplicates_with' (array showing which steps the redundant steps duplicate). " +
	"Do NOT include ```json markers or any other text outside the JSON.\n\n" +
	"Example: If steps 1 and 2 are repeated in steps 3 and 4, return: " +
	"{\"steps_to_remove\": [1, 2], \"duplicates_with\": [3, 4]}\n" +
	"Note: Always delete the EARLIER steps that get repeated later, keep the later ones."

// verifySystemPrompt asks the oracle to confirm or narrow a proposed
// deletion set before any destructive rewrite.
const verifySystemPrompt = "You are a verification assistant. You have been given a list of steps that were identified as redundant and should be deleted. " +
	"Your job is to verify if it is safe to delete these steps without affecting the final outcome.\n\n" +
	"You will see:\n" +
	"1. The full list of steps in the trajectory\n" +
	"2. Which steps are marked for deletion and what they duplicate\n" +
	"3. Screenshots showing the state at each relevant step\n\n" +
	"CONTEXT: These steps were flagged as redundant duplicates. Verify if removing them would break the trajectory or if they are indeed safe to remove.\n\n" +
	"Your response MUST be a single valid JSON object with these fields:\n" +
	"'safe_to_delete' (boolean: true if safe to delete all identified steps, false if any should be kept),\n" +
	"'verified_steps_to_remove' (array of step numbers that are confirmed safe to remove),\n" +
	"'reason' (brief explanation of your decision)\n\n" +
	"Do NOT include ```json markers or any other text outside the JSON."
